package tools

import (
	"time"
)

// Category enum
type Category string

const (
	CategoryPDF        Category = "pdf"
	CategoryImage      Category = "image"
	CategoryAudio      Category = "audio"
	CategoryGovernment Category = "government"
)

// Tool descriptor, read-only for the lifetime of the process
type Tool struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	Popular     bool     `json:"popular"`
	IsActive    bool     `json:"isActive"`
}

// Usage is one append-only processing record
type Usage struct {
	ID             int64     `json:"id"`
	ToolID         int       `json:"tool_id"`
	SessionID      string    `json:"session_id"`
	ProcessingTime int64     `json:"processing_time"`
	Success        bool      `json:"success"`
	Timestamp      time.Time `json:"timestamp"`
}

// Upload is a transient handle to an uploaded file already staged on
// disk by the HTTP layer. Path is unlinked by the dispatch service
// after processing, success or not.
type Upload struct {
	OriginalName string
	Path         string
	Size         int64
	ContentType  string
}
