package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"
)

// Checker defines interface for a single health probe
type Checker interface {
	Check(ctx context.Context) error
}

// DatabaseChecker checks database health
type DatabaseChecker struct {
	DB *sql.DB
}

func (d *DatabaseChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// BinaryChecker verifies an external binary is still on PATH
type BinaryChecker struct {
	Name string
}

func (b *BinaryChecker) Check(_ context.Context) error {
	_, err := exec.LookPath(b.Name)
	return err
}

// DirChecker verifies a working directory exists and is writable
type DirChecker struct {
	Path string
}

func (d *DirChecker) Check(_ context.Context) error {
	fi, err := os.Stat(d.Path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", d.Path)
	}
	probe, err := os.CreateTemp(d.Path, ".health-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// HealthStatus represents the overall health response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker aggregates named probes into one handler
type HealthChecker struct {
	checks map[string]Checker
}

func NewHealthChecker(checks map[string]Checker) *HealthChecker {
	return &HealthChecker{checks: checks}
}

func (h *HealthChecker) Handler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckStatus),
	}

	for name, checker := range h.checks {
		if err := checker.Check(ctx); err != nil {
			health.Status = "unhealthy"
			health.Checks[name] = CheckStatus{Status: "unhealthy", Message: err.Error()}
		} else {
			health.Checks[name] = CheckStatus{Status: "healthy"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}
