package labeling

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lehigh-university-libraries/brochurer/internal/gemini"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/lehigh-university-libraries/brochurer/internal/ollama"
	"github.com/lehigh-university-libraries/brochurer/internal/openai"
	"github.com/lehigh-university-libraries/brochurer/internal/providers"
)

// Categories a photo can be labeled with. Order matters when a response
// mentions more than one.
var Categories = []string{
	"exterior",
	"garden",
	"kitchen",
	"living room",
	"dining room",
	"bedroom",
	"bathroom",
	"hallway",
	"office",
}

// ImageReader returns the raw bytes of a photo
type ImageReader func(p *models.Photo) ([]byte, error)

// Service attaches category labels to uncategorized photos using a vision
// capable LLM.
type Service struct {
	provider providers.Provider
	model    string
	read     ImageReader
	attempts uint
	delay    time.Duration
}

func NewService(provider providers.Provider, model string, read ImageReader) *Service {
	return &Service{
		provider: provider,
		model:    model,
		read:     read,
		attempts: 3,
		delay:    time.Second,
	}
}

// NewProvider returns the provider registered under name
func NewProvider(name, ollamaURL string) (providers.Provider, error) {
	switch name {
	case "ollama", "":
		return ollama.New(ollamaURL), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	default:
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llava:13b"
	}
}

// LabelPhotos sets Category on every photo that has none. A photo that
// cannot be labeled is logged and left uncategorized. It returns the number
// of photos labeled.
func (s *Service) LabelPhotos(ctx context.Context, list []*models.Photo) (int, error) {
	labeled := 0
	for _, p := range list {
		if p.Category != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return labeled, err
		}

		category, err := s.labelPhoto(ctx, p)
		if err != nil {
			slog.Warn("Failed to label photo", "photo_id", p.ID, "filename", p.Filename, "error", err)
			continue
		}
		if category == "" {
			slog.Debug("No category recognized for photo", "photo_id", p.ID, "filename", p.Filename)
			continue
		}

		p.Category = category
		labeled++
		slog.Info("Photo labeled", "photo_id", p.ID, "filename", p.Filename, "category", category)
	}
	return labeled, nil
}

func (s *Service) labelPhoto(ctx context.Context, p *models.Photo) (string, error) {
	data, err := s.read(p)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	config := providers.Config{
		Model:       s.model,
		Temperature: 0.1,
		Prompt:      buildPrompt(),
		Image:       data,
		ImageMIME:   http.DetectContentType(data),
	}

	var response string
	err = retry.Do(
		func() error {
			var err error
			response, err = s.provider.ExtractText(ctx, config)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	return ParseCategory(response), nil
}

func buildPrompt() string {
	return fmt.Sprintf(`You are helping an estate agent lay out a property brochure.
Look at the photograph and answer with exactly one of these room or area labels:
%s

Respond with the label only, in lowercase, with no punctuation or explanation.`, strings.Join(Categories, ", "))
}

// ParseCategory extracts a known category from a model response, or
// returns "" when none is recognized.
func ParseCategory(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.ToLower(strings.Trim(strings.TrimSpace(response), `"'.`))

	for _, c := range Categories {
		if response == c {
			return c
		}
	}

	// first category mentioned wins
	best, bestIdx := "", -1
	for _, c := range Categories {
		if idx := strings.Index(response, c); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = c, idx
		}
	}
	return best
}
