package tools

// OutputFile describes one staged artifact in a processing response.
type OutputFile struct {
	Filename       string `json:"filename"`
	DownloadURL    string `json:"downloadUrl"`
	Size           int64  `json:"size"`
	ProcessingTime int64  `json:"processingTime,omitempty"`
}

// Result is the uniform outcome of an Operation. File-producing tools
// fill Files; pure-computation tools fill Data instead.
type Result struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	Files          []OutputFile   `json:"files,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	ProcessingTime int64          `json:"processingTime"`
	Demo           bool           `json:"demo,omitempty"`
}
