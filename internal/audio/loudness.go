package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)

// normalize measures the segment's mean level with volumedetect and
// applies the gain that brings it to the target loudness.
func (p *implPostProcessor) normalize(ctx context.Context, wav string) (string, error) {
	measured, err := p.measureLoudness(ctx, wav)
	if err != nil {
		return "", err
	}

	gain := p.cfg.TargetLoudnessDB - measured
	out := strings.TrimSuffix(wav, filepath.Ext(wav)) + "_norm.wav"

	args := []string{
		"-y",
		"-i", wav,
		"-af", fmt.Sprintf("volume=%.2fdB", gain),
		out,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", err
	}

	p.logger.Debug(ctx, "Normalized %s: measured %.1f dB, gain %+.1f dB", filepath.Base(wav), measured, gain)
	return out, nil
}

// measureLoudness runs the volumedetect filter and parses mean_volume
// from its report.
func (p *implPostProcessor) measureLoudness(ctx context.Context, wav string) (float64, error) {
	out, err := p.executor.Execute(ctx, "ffmpeg",
		"-i", wav,
		"-af", "volumedetect",
		"-f", "null",
		"-",
	)
	if err != nil {
		return 0, fmt.Errorf("volumedetect: %w", err)
	}
	return parseMeanVolume(out)
}

func parseMeanVolume(report string) (float64, error) {
	m := meanVolumeRe.FindStringSubmatch(report)
	if m == nil {
		return 0, fmt.Errorf("mean_volume not found in volumedetect output")
	}
	return strconv.ParseFloat(m[1], 64)
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d, nil
}
