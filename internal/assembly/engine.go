package assembly

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/brochurer/internal/intake"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/lehigh-university-libraries/brochurer/internal/photos"
)

const (
	// PhotosPerInteriorPage is the maximum number of photos on an interior page.
	PhotosPerInteriorPage = 3

	CoverTitle           = "Welcome Home"
	DefaultInteriorTitle = "Interior Views"
	FloorPlanTitle       = "Property Layout"
	ContactTitle         = "Get In Touch"
)

// Publisher receives a successfully built brochure.
type Publisher interface {
	Publish(b *models.Brochure)
}

// Assemble builds the ordered pages for in. Validation happens before any
// page is constructed.
func Assemble(in intake.Input) ([]models.Page, error) {
	if len(in.Photos) == 0 {
		return nil, ErrMissingPhotos
	}
	if strings.TrimSpace(in.Property.Address) == "" {
		return nil, ErrMissingAddress
	}

	cover, remainder := photos.SelectCover(in.Photos)

	var pages []models.Page
	add := func(p models.Page) {
		p.ID = len(pages) + 1
		pages = append(pages, p)
	}

	if cover != nil {
		add(models.Page{
			Type:   models.PageTypeCover,
			Title:  CoverTitle,
			Photos: []*models.Photo{cover},
			Content: models.CoverContent{
				Address: in.Property.Address,
				Price:   in.Property.Price,
			},
		})
	}

	for _, chunk := range chunkPhotos(remainder, PhotosPerInteriorPage) {
		add(models.Page{
			Type:    models.PageTypeInterior,
			Title:   interiorTitle(chunk[0]),
			Photos:  chunk,
			Content: models.InteriorContent{Description: in.Property.Description},
		})
	}

	if in.FloorPlan != nil {
		add(models.Page{
			Type:    models.PageTypeFloorPlan,
			Title:   FloorPlanTitle,
			Photos:  []*models.Photo{},
			Content: models.FloorPlanContent{FloorPlan: *in.FloorPlan},
		})
	}

	add(models.Page{
		Type:    models.PageTypeContact,
		Title:   ContactTitle,
		Photos:  []*models.Photo{},
		Content: models.ContactContent{Agent: in.Agent},
	})

	return pages, nil
}

// chunkPhotos splits list into consecutive groups of at most size photos.
func chunkPhotos(list []*models.Photo, size int) [][]*models.Photo {
	var chunks [][]*models.Photo
	for start := 0; start < len(list); start += size {
		end := min(start+size, len(list))
		chunk := make([]*models.Photo, end-start)
		copy(chunk, list[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}

func interiorTitle(first *models.Photo) string {
	if first.Category == "" {
		return DefaultInteriorTitle
	}
	r, size := utf8.DecodeRuneInString(first.Category)
	return string(unicode.ToUpper(r)) + first.Category[size:]
}

// Engine builds brochures and publishes them to a store.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine stamping brochures with the current time.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Build assembles a complete brochure from in. Any panic raised while
// building is returned as an *InternalAssemblyError.
func (e *Engine) Build(in intake.Input) (b *models.Brochure, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &InternalAssemblyError{Cause: cause}
		}
	}()

	pages, err := Assemble(in)
	if err != nil {
		return nil, err
	}

	return &models.Brochure{
		Pages:       pages,
		Photos:      in.Photos,
		Property:    in.Property,
		Agent:       in.Agent,
		FloorPlan:   in.FloorPlan,
		GeneratedAt: e.now(),
	}, nil
}

// Generate builds a brochure and publishes it to pub. Nothing is published
// when building fails.
func (e *Engine) Generate(pub Publisher, in intake.Input) (*models.Brochure, error) {
	b, err := e.Build(in)
	if err != nil {
		if IsValidation(err) {
			slog.Warn("Brochure input rejected", "error", err)
		} else {
			slog.Error("Brochure assembly failed", "error", err)
		}
		return nil, err
	}

	pub.Publish(b)
	slog.Info("Brochure generated", "pages", len(b.Pages), "photos", len(b.Photos), "floorplan", b.FloorPlan != nil)
	return b, nil
}
