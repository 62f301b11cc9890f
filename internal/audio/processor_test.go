package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/podcast-flow/internal/config"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

// fakeExecutor plays the role of ffmpeg/ffprobe: it records invocations,
// fabricates tool output and creates the output files commands would
// produce.
type fakeExecutor struct {
	commands [][]string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.run("", name, args)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.run(dir, name, args)
}

func (f *fakeExecutor) run(dir, name string, args []string) (string, error) {
	full := append([]string{name}, args...)
	f.commands = append(f.commands, full)

	if name == "ffprobe" {
		return "180.500000\n", nil
	}
	for _, a := range args {
		if a == "volumedetect" {
			return "[Parsed_volumedetect_0] mean_volume: -23.4 dB\n[Parsed_volumedetect_0] max_volume: -5.0 dB\n", nil
		}
	}

	// last argument is the output file
	out := args[len(args)-1]
	if out == "-" {
		return "", nil
	}
	if dir != "" && !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	if err := os.WriteFile(out, []byte("FAKEAUDIO"), 0644); err != nil {
		return "", err
	}
	return "", nil
}

func (f *fakeExecutor) find(substrs ...string) [][]string {
	var matched [][]string
	for _, cmd := range f.commands {
		joined := strings.Join(cmd, " ")
		all := true
		for _, s := range substrs {
			if !strings.Contains(joined, s) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func audioConfig(crossfadeMs int) config.AudioConfig {
	return config.AudioConfig{
		TargetLoudnessDB: -16,
		Bitrate:          "128k",
		SampleRate:       44100,
		CrossfadeMs:      crossfadeMs,
	}
}

func TestProcessSingleSegment(t *testing.T) {
	exec := &fakeExecutor{}
	p := New(audioConfig(0), exec, logger.New("error"), t.TempDir())

	data, err := p.Process(context.Background(), [][]byte{[]byte("pcmdata")})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if string(data) != "FAKEAUDIO" {
		t.Errorf("data = %q", data)
	}

	// gain = target(-16) - measured(-23.4) = +7.4 dB
	if got := exec.find("volume=7.40dB"); len(got) != 1 {
		t.Errorf("normalization gain commands = %v", got)
	}
	if got := exec.find("afade=t=in", "libmp3lame", "128k"); len(got) != 1 {
		t.Errorf("export commands = %v", got)
	}
	if got := exec.find("aresample=44100"); len(got) != 1 {
		t.Errorf("resample commands = %v", got)
	}
	// single segment must not be concatenated
	if got := exec.find("concat"); len(got) != 0 {
		t.Errorf("unexpected concat commands = %v", got)
	}
}

func TestProcessMultipleSegments(t *testing.T) {
	exec := &fakeExecutor{}
	p := New(audioConfig(0), exec, logger.New("error"), t.TempDir())

	blobs := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	if _, err := p.Process(context.Background(), blobs); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// one normalization per segment
	if got := exec.find("volume=7.40dB"); len(got) != 3 {
		t.Errorf("normalization commands = %d, want 3", len(got))
	}
	if got := exec.find("-f concat"); len(got) != 1 {
		t.Errorf("concat commands = %d, want 1", len(got))
	}
	// one final export only
	if got := exec.find("libmp3lame"); len(got) != 1 {
		t.Errorf("export commands = %d, want 1", len(got))
	}
}

func TestProcessCrossfade(t *testing.T) {
	exec := &fakeExecutor{}
	p := New(audioConfig(250), exec, logger.New("error"), t.TempDir())

	blobs := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	if _, err := p.Process(context.Background(), blobs); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// three segments fold through two pairwise crossfades
	if got := exec.find("acrossfade=d=0.250"); len(got) != 2 {
		t.Errorf("acrossfade commands = %d, want 2", len(got))
	}
	if got := exec.find("-f concat"); len(got) != 0 {
		t.Errorf("unexpected concat demuxer use = %v", got)
	}
}

func TestProcessNoSegments(t *testing.T) {
	p := New(audioConfig(0), &fakeExecutor{}, logger.New("error"), t.TempDir())
	if _, err := p.Process(context.Background(), nil); err == nil {
		t.Error("Process() should fail with no segments")
	}
}

func TestProcessCleansTempDir(t *testing.T) {
	work := t.TempDir()
	p := New(audioConfig(0), &fakeExecutor{}, logger.New("error"), work)

	if _, err := p.Process(context.Background(), [][]byte{[]byte("x")}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(work)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("work dir not cleaned: %v", entries)
	}
}

func TestParseMeanVolume(t *testing.T) {
	tests := []struct {
		name    string
		report  string
		want    float64
		wantErr bool
	}{
		{"negative", "mean_volume: -23.4 dB", -23.4, false},
		{"integer", "mean_volume: -20 dB", -20, false},
		{"positive", "mean_volume: 1.5 dB", 1.5, false},
		{"missing", "max_volume: -5.0 dB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMeanVolume(tt.report)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := parseDuration("123.456\n"); err != nil || d != 123.456 {
		t.Errorf("parseDuration = %f, %v", d, err)
	}
	if _, err := parseDuration("n/a"); err == nil {
		t.Error("parseDuration should reject garbage")
	}
}
