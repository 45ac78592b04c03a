package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/avast/retry-go/v4"
)

// Fetcher downloads property photos from remote URLs
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
	Attempts   uint
	Delay      time.Duration
}

// NewFetcher creates a new image fetcher
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
		Attempts: 3,
		Delay:    500 * time.Millisecond,
	}
}

// Fetch downloads imageURL and returns its bytes along with a filename
// derived from the URL path.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid image URL: %s", imageURL)
	}

	filename := path.Base(u.Path)
	if filename == "" || filename == "/" || filename == "." {
		filename = "image.jpg"
	}

	var data []byte
	err = retry.Do(
		func() error {
			var err error
			data, err = f.download(ctx, imageURL)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.Attempts),
		retry.Delay(f.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			_, permanent := err.(permanentError)
			return !permanent
		}),
	)
	if err != nil {
		return nil, "", err
	}

	slog.Debug("Downloaded image", "url", imageURL, "bytes", len(data))
	return data, filename, nil
}

type permanentError struct{ error }

func (f *Fetcher) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, permanentError{fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, permanentError{fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, permanentError{fmt.Errorf("image too large (max %d bytes)", f.MaxBytes)}
	}

	return data, nil
}

// Dimensions decodes the image header and returns its width and height
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
