package executor

import "context"

// Executor runs external commands (ffmpeg, ffprobe)
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}
