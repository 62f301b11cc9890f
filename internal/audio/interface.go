package audio

import "context"

// PostProcessor normalizes, fades and concatenates synthesized audio
// blobs into one compressed episode file.
type PostProcessor interface {
	Process(ctx context.Context, blobs [][]byte) ([]byte, error)
}
