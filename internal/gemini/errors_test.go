package gemini

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTokenLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"token exceed", errors.New("input token count exceeds the maximum"), true},
		{"token limit", errors.New("request exceeds token limit"), true},
		{"unrelated", errors.New("connection refused"), false},
		{"token only", errors.New("invalid token"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenLimit(tt.err); got != tt.want {
				t.Errorf("IsTokenLimit(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsSafetyBlock(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrSafetyBlocked, true},
		{"wrapped sentinel", fmt.Errorf("generate: %w", ErrSafetyBlocked), true},
		{"safety text", errors.New("candidate blocked due to SAFETY"), true},
		{"unrelated", errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSafetyBlock(tt.err); got != tt.want {
				t.Errorf("IsSafetyBlock(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
