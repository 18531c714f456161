package tools

import "context"

// Catalog port: read-only access to the tool descriptors.
type Catalog interface {
	All() []Tool
	BySlug(slug string) (Tool, bool)
	ByCategory(c Category) []Tool
}

// UsageSink port: append-only usage log. Records are never read back
// by the processing path.
type UsageSink interface {
	Record(ctx context.Context, u Usage) error
}

// Operation is one tool execution: already-uploaded files in, result
// out. Implementations stage any output files through an ArtifactStore
// and must not retain the uploads: the dispatch service unlinks them
// after Execute returns.
type Operation interface {
	Execute(ctx context.Context, files []Upload, opts Options) (*Result, error)
}

// OperationFunc adapts a function to the Operation interface.
type OperationFunc func(ctx context.Context, files []Upload, opts Options) (*Result, error)

func (f OperationFunc) Execute(ctx context.Context, files []Upload, opts Options) (*Result, error) {
	return f(ctx, files, opts)
}

// ArtifactStore port: staging area for processing outputs, served later
// by the one-shot download endpoint.
type ArtifactStore interface {
	// Stage reserves a collision-free output path for an operation.
	// ext includes the leading dot.
	Stage(operation, ext string) (Artifact, error)
	// Resolve maps a bare filename back to its on-disk path.
	Resolve(filename string) (string, error)
	// Remove deletes a staged artifact.
	Remove(filename string) error
}

// Artifact is one reserved output slot.
type Artifact struct {
	Name string // filename within the downloads directory
	Path string // absolute or cwd-relative path on disk
}

// DownloadURL is the relative URL the client fetches an artifact from.
func (a Artifact) DownloadURL() string {
	return "/api/download/" + a.Name
}
