// Package media implements the audio and video tools by shelling out
// to ffmpeg.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Runner wraps the ffmpeg binary. Every run gets its own deadline so a
// stuck encode cannot pin a worker.
type Runner struct {
	binary  string
	timeout time.Duration
}

// NewRunner resolves the ffmpeg binary up front so a missing install
// fails at boot, not on the first request.
func NewRunner(binary string, timeout time.Duration) (*Runner, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found (%q): %w", binary, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Runner{binary: path, timeout: timeout}, nil
}

func (r *Runner) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out after %s", r.timeout)
		}
		if ee, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("ffmpeg exit %d: %s", ee.ExitCode(), tail(string(out), 400))
		}
		return fmt.Errorf("ffmpeg: %v, output=%s", err, tail(string(out), 400))
	}
	return nil
}

// tail keeps the end of ffmpeg's output, which is where the error is.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// Video scale presets. Height -2 keeps the aspect ratio and an even
// dimension, which most codecs require.
var videoPresets = map[string]string{
	"1080p": "scale=1920:-2",
	"720p":  "scale=1280:-2",
	"480p":  "scale=854:-2",
}

func convertAudioArgs(in, out string) []string {
	return []string{"-y", "-i", in, out}
}

func convertVideoArgs(in, out, preset string) []string {
	args := []string{"-y", "-i", in}
	if vf, ok := videoPresets[preset]; ok {
		args = append(args, "-vf", vf)
	}
	return append(args, out)
}

func extractAudioArgs(in, out string) []string {
	return []string{"-y", "-i", in, "-vn", "-acodec", "copy", out}
}

func trimArgs(in, out, start, end string) []string {
	args := []string{"-y", "-i", in}
	if start != "" {
		args = append(args, "-ss", start)
	}
	if end != "" {
		args = append(args, "-to", end)
	}
	return append(args, "-c", "copy", out)
}

func mergeAudioArgs(listFile, out string) []string {
	return []string{"-y", "-f", "concat", "-safe", "0", "-i", listFile, "-c", "copy", out}
}

func compressVideoArgs(in, out string, crf int) []string {
	return []string{"-y", "-i", in, "-vcodec", "libx264", "-crf", fmt.Sprintf("%d", crf), out}
}

func gifArgs(in, out, start string, duration, fps, width int) []string {
	args := []string{"-y"}
	if start != "" {
		args = append(args, "-ss", start)
	}
	if duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", duration))
	}
	args = append(args, "-i", in,
		"-vf", fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", fps, width),
	)
	return append(args, out)
}

// Processor exposes the media tools on top of the runner.
type Processor struct {
	store  domain.ArtifactStore
	runner *Runner
}

func NewProcessor(store domain.ArtifactStore, runner *Runner) *Processor {
	return &Processor{store: store, runner: runner}
}

// ConvertAudio transcodes to the requested audio container.
func (p *Processor) ConvertAudio(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	format := normalizeExt(opts.String("format", "mp3"), []string{"mp3", "wav", "aac", "ogg", "flac", "m4a"})
	if format == "" {
		return nil, fmt.Errorf("unsupported audio format: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("audio-convert", "."+format)
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, convertAudioArgs(up.Path, art.Path)); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Audio converted to %s", format), art, map[string]any{
		"format": format,
	}), nil
}

// ConvertVideo transcodes to the requested container, optionally
// scaled down to a resolution preset.
func (p *Processor) ConvertVideo(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	format := normalizeExt(opts.String("format", "mp4"), []string{"mp4", "avi", "mkv", "mov", "webm"})
	if format == "" {
		return nil, fmt.Errorf("unsupported video format: %w", domain.ErrUnsupported)
	}
	preset := opts.String("resolution", "")

	art, err := p.store.Stage("video-convert", "."+format)
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, convertVideoArgs(up.Path, art.Path, preset)); err != nil {
		return nil, err
	}
	data := map[string]any{"format": format}
	if preset != "" {
		data["resolution"] = preset
	}
	return p.fileResult(fmt.Sprintf("Video converted to %s", format), art, data), nil
}

// ExtractAudio copies the audio stream out of a video without
// re-encoding.
func (p *Processor) ExtractAudio(ctx context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	up := files[0]

	art, err := p.store.Stage("audio-extract", ".m4a")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, extractAudioArgs(up.Path, art.Path)); err != nil {
		return nil, err
	}
	return p.fileResult("Audio extracted", art, nil), nil
}

// Trim cuts the clip between startTime and endTime with a stream copy,
// so it is fast and lossless.
func (p *Processor) Trim(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	start := opts.String("startTime", "")
	end := opts.String("endTime", "")
	if start == "" && end == "" {
		return nil, fmt.Errorf("startTime or endTime required: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("media-trim", filepath.Ext(up.OriginalName))
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, trimArgs(up.Path, art.Path, start, end)); err != nil {
		return nil, err
	}
	return p.fileResult("Clip trimmed", art, map[string]any{
		"startTime": start,
		"endTime":   end,
	}), nil
}

// MergeAudio concatenates the uploads in request order via ffmpeg's
// concat demuxer.
func (p *Processor) MergeAudio(ctx context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("merge needs at least two files: %w", domain.ErrUnsupported)
	}

	list, err := os.CreateTemp("", "concat-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())
	for _, f := range files {
		// Single quotes per the concat demuxer's escaping rules.
		fmt.Fprintf(list, "file '%s'\n", strings.ReplaceAll(f.Path, "'", `'\''`))
	}
	if err := list.Close(); err != nil {
		return nil, err
	}

	art, err := p.store.Stage("audio-merge", ".mp3")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, mergeAudioArgs(list.Name(), art.Path)); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Merged %d audio files", len(files)), art, nil), nil
}

// CompressVideo re-encodes with x264 at a constant rate factor. Higher
// CRF means smaller output.
func (p *Processor) CompressVideo(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	crf := opts.Int("crf", 28)
	if crf < 18 || crf > 40 {
		crf = 28
	}

	art, err := p.store.Stage("video-compress", ".mp4")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, compressVideoArgs(up.Path, art.Path, crf)); err != nil {
		return nil, err
	}

	var after int64
	if fi, err := os.Stat(art.Path); err == nil {
		after = fi.Size()
	}
	return p.fileResult("Video compressed", art, map[string]any{
		"originalSize":   up.Size,
		"compressedSize": after,
		"crf":            crf,
	}), nil
}

// MakeGIF renders a section of the video as an animated GIF.
func (p *Processor) MakeGIF(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	start := opts.String("startTime", "")
	duration := opts.Int("duration", 5)
	fps := opts.Int("fps", 10)
	width := opts.Int("width", 480)

	art, err := p.store.Stage("gif-maker", ".gif")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, gifArgs(up.Path, art.Path, start, duration, fps, width)); err != nil {
		return nil, err
	}
	return p.fileResult("GIF created", art, map[string]any{
		"fps":   fps,
		"width": width,
	}), nil
}

func (p *Processor) fileResult(msg string, art domain.Artifact, data map[string]any) *domain.Result {
	var size int64
	if fi, err := os.Stat(art.Path); err == nil {
		size = fi.Size()
	}
	return &domain.Result{
		Success: true,
		Message: msg,
		Files: []domain.OutputFile{{
			Filename:    art.Name,
			DownloadURL: art.DownloadURL(),
			Size:        size,
		}},
		Data: data,
	}
}

func normalizeExt(format string, allowed []string) string {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	for _, a := range allowed {
		if format == a {
			return format
		}
	}
	return ""
}
