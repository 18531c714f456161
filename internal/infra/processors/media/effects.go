package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

func volumeArgs(in, out string, factor float64) []string {
	return []string{"-y", "-i", in, "-af", fmt.Sprintf("volume=%.2f", factor), out}
}

func audioCompressArgs(in, out, bitrate string) []string {
	return []string{"-y", "-i", in, "-b:a", bitrate, out}
}

// atempo only accepts 0.5..2.0 per instance, so larger factors are
// chained.
func atempoChain(speed float64) string {
	var parts []string
	for speed > 2.0 {
		parts = append(parts, "atempo=2.0")
		speed /= 2.0
	}
	for speed < 0.5 {
		parts = append(parts, "atempo=0.5")
		speed /= 0.5
	}
	parts = append(parts, fmt.Sprintf("atempo=%.3f", speed))
	return strings.Join(parts, ",")
}

func audioSpeedArgs(in, out string, speed float64) []string {
	return []string{"-y", "-i", in, "-af", atempoChain(speed), out}
}

func videoSpeedArgs(in, out string, speed float64) []string {
	return []string{
		"-y", "-i", in,
		"-vf", fmt.Sprintf("setpts=%.4f*PTS", 1/speed),
		"-af", atempoChain(speed),
		out,
	}
}

func videoResizeArgs(in, out string, w, h int) []string {
	return []string{"-y", "-i", in, "-vf", fmt.Sprintf("scale=%d:%d", w, h), out}
}

// BoostVolume amplifies the audio track by a multiplier.
func (p *Processor) BoostVolume(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	factor := opts.Float("factor", 1.5)
	if factor <= 0 || factor > 10 {
		return nil, fmt.Errorf("volume factor out of range: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("volume-boost", extOr(up.OriginalName, ".mp3"))
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, volumeArgs(up.Path, art.Path, factor)); err != nil {
		return nil, err
	}
	return p.fileResult("Volume boosted", art, map[string]any{"factor": factor}), nil
}

// CompressAudio re-encodes at a lower bitrate.
func (p *Processor) CompressAudio(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	bitrate := opts.String("bitrate", "128k")

	art, err := p.store.Stage("audio-compress", ".mp3")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, audioCompressArgs(up.Path, art.Path, bitrate)); err != nil {
		return nil, err
	}

	var after int64
	if fi, err := os.Stat(art.Path); err == nil {
		after = fi.Size()
	}
	return p.fileResult("Audio compressed", art, map[string]any{
		"originalSize":   up.Size,
		"compressedSize": after,
		"bitrate":        bitrate,
	}), nil
}

// ChangeAudioSpeed retimes audio without changing pitch.
func (p *Processor) ChangeAudioSpeed(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	speed := opts.Float("speed", 1.0)
	if speed < 0.25 || speed > 4 {
		return nil, fmt.Errorf("speed out of range: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("audio-speed-change", extOr(up.OriginalName, ".mp3"))
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, audioSpeedArgs(up.Path, art.Path, speed)); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Speed changed to %.2fx", speed), art, map[string]any{"speed": speed}), nil
}

// ChangeVideoSpeed retimes both streams together.
func (p *Processor) ChangeVideoSpeed(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	speed := opts.Float("speed", 1.0)
	if speed < 0.25 || speed > 4 {
		return nil, fmt.Errorf("speed out of range: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("video-speed-change", ".mp4")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, videoSpeedArgs(up.Path, art.Path, speed)); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Speed changed to %.2fx", speed), art, map[string]any{"speed": speed}), nil
}

// ResizeVideo rescales to explicit dimensions.
func (p *Processor) ResizeVideo(ctx context.Context, files []domain.Upload, opts domain.Options) (*domain.Result, error) {
	up := files[0]
	w := opts.Int("width", 0)
	h := opts.Int("height", 0)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("width and height required: %w", domain.ErrUnsupported)
	}

	art, err := p.store.Stage("video-resize", ".mp4")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, videoResizeArgs(up.Path, art.Path, w, h)); err != nil {
		return nil, err
	}
	return p.fileResult("Video resized", art, map[string]any{"width": w, "height": h}), nil
}

// MergeVideo concatenates clips that share a codec via the concat
// demuxer with stream copy.
func (p *Processor) MergeVideo(ctx context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("merge needs at least two files: %w", domain.ErrUnsupported)
	}

	list, err := os.CreateTemp("", "concat-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())
	for _, f := range files {
		fmt.Fprintf(list, "file '%s'\n", strings.ReplaceAll(f.Path, "'", `'\''`))
	}
	if err := list.Close(); err != nil {
		return nil, err
	}

	art, err := p.store.Stage("video-merge", ".mp4")
	if err != nil {
		return nil, err
	}
	if err := p.runner.run(ctx, mergeAudioArgs(list.Name(), art.Path)); err != nil {
		return nil, err
	}
	return p.fileResult(fmt.Sprintf("Merged %d videos", len(files)), art, nil), nil
}

func extOr(name, def string) string {
	if ext := filepath.Ext(name); ext != "" {
		return ext
	}
	return def
}
