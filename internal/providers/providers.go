package providers

import (
	"context"
)

// Config represents a single vision request to an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Image       []byte
	ImageMIME   string // e.g. "image/jpeg"
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
