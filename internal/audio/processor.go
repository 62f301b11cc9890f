package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	segmentFadeSec = 0.5
	finalFadeSec   = 1.5
)

// Process decodes every blob, normalizes loudness to the target level,
// concatenates in order, resamples and exports one MP3 byte stream.
func (p *implPostProcessor) Process(ctx context.Context, blobs [][]byte) ([]byte, error) {
	if len(blobs) == 0 {
		return nil, fmt.Errorf("no audio segments to process")
	}

	if err := os.MkdirAll(p.workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	tmpDir, err := os.MkdirTemp(p.workDir, "episode-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Decode each raw PCM blob to wav and normalize its loudness.
	segments := make([]string, 0, len(blobs))
	for i, blob := range blobs {
		wav, err := p.decodeSegment(ctx, tmpDir, i, blob)
		if err != nil {
			return nil, fmt.Errorf("decode segment %d: %w", i, err)
		}
		normalized, err := p.normalize(ctx, wav)
		if err != nil {
			return nil, fmt.Errorf("normalize segment %d: %w", i, err)
		}
		segments = append(segments, normalized)
	}

	var combined string
	var fadeSec float64
	if len(segments) == 1 {
		combined = segments[0]
		fadeSec = segmentFadeSec
	} else {
		combined, err = p.concat(ctx, tmpDir, segments)
		if err != nil {
			return nil, fmt.Errorf("concatenate segments: %w", err)
		}
		fadeSec = finalFadeSec
	}

	out, err := p.export(ctx, tmpDir, combined, fadeSec)
	if err != nil {
		return nil, fmt.Errorf("export episode: %w", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read episode file: %w", err)
	}

	p.logger.Info(ctx, "Post-processing done: %d segments -> %d bytes", len(blobs), len(data))
	return data, nil
}

// decodeSegment writes one raw PCM blob and converts it to wav.
func (p *implPostProcessor) decodeSegment(ctx context.Context, dir string, i int, blob []byte) (string, error) {
	raw := filepath.Join(dir, fmt.Sprintf("segment_%03d.pcm", i))
	if err := os.WriteFile(raw, blob, 0644); err != nil {
		return "", fmt.Errorf("write raw segment: %w", err)
	}

	wav := filepath.Join(dir, fmt.Sprintf("segment_%03d.wav", i))
	args := []string{
		"-y",
		"-f", sourceFormat,
		"-ar", fmt.Sprintf("%d", sourceSampleRate),
		"-ac", "1",
		"-i", raw,
		wav,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", err
	}
	return wav, nil
}

// concat joins normalized segments in order. With a configured crossfade
// the segments are folded pairwise through acrossfade; otherwise the
// concat demuxer splices them directly.
func (p *implPostProcessor) concat(ctx context.Context, dir string, segments []string) (string, error) {
	if p.cfg.CrossfadeMs > 0 {
		return p.concatCrossfade(ctx, dir, segments)
	}

	list := filepath.Join(dir, "concat.txt")
	var sb []byte
	for _, seg := range segments {
		sb = append(sb, []byte(fmt.Sprintf("file '%s'\n", filepath.Base(seg)))...)
	}
	if err := os.WriteFile(list, sb, 0644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}

	out := filepath.Join(dir, "combined.wav")
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", "concat.txt",
		"-c", "copy",
		"combined.wav",
	}
	// run inside dir so the list's relative paths resolve
	if _, err := p.executor.ExecuteInDir(ctx, dir, "ffmpeg", args...); err != nil {
		return "", err
	}
	return out, nil
}

func (p *implPostProcessor) concatCrossfade(ctx context.Context, dir string, segments []string) (string, error) {
	crossfade := float64(p.cfg.CrossfadeMs) / 1000.0
	acc := segments[0]
	for i := 1; i < len(segments); i++ {
		out := filepath.Join(dir, fmt.Sprintf("acc_%03d.wav", i))
		args := []string{
			"-y",
			"-i", acc,
			"-i", segments[i],
			"-filter_complex", fmt.Sprintf("acrossfade=d=%.3f", crossfade),
			out,
		}
		if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
			return "", err
		}
		acc = out
	}
	return acc, nil
}

// export applies fade-in/out, resamples to the output rate and encodes
// the final MP3 at the configured bitrate.
func (p *implPostProcessor) export(ctx context.Context, dir, input string, fadeSec float64) (string, error) {
	duration, err := p.probeDuration(ctx, input)
	if err != nil {
		return "", err
	}

	fadeOutStart := duration - fadeSec
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	out := filepath.Join(dir, "episode.mp3")
	args := []string{
		"-y",
		"-i", input,
		"-af", fmt.Sprintf("afade=t=in:st=0:d=%.2f,afade=t=out:st=%.2f:d=%.2f,aresample=%d",
			fadeSec, fadeOutStart, fadeSec, p.cfg.SampleRate),
		"-c:a", "libmp3lame",
		"-b:a", p.cfg.Bitrate,
		out,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", err
	}
	return out, nil
}

func (p *implPostProcessor) probeDuration(ctx context.Context, path string) (float64, error) {
	out, err := p.executor.Execute(ctx, "ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}
	return parseDuration(out)
}
