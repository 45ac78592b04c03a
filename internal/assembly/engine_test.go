package assembly

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/brochurer/internal/intake"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

func photo(id, category string) *models.Photo {
	return &models.Photo{ID: id, Filename: id + ".jpg", Category: category}
}

func input(list []*models.Photo, address string) intake.Input {
	return intake.Collect(list, intake.FormFields{
		Address:     address,
		Price:       "£300,000",
		Description: "Spacious family home",
		AgentName:   "Alex",
	}, nil)
}

type recordingPublisher struct {
	published []*models.Brochure
}

func (r *recordingPublisher) Publish(b *models.Brochure) {
	r.published = append(r.published, b)
}

func TestAssembleValidation(t *testing.T) {
	tests := []struct {
		name    string
		photos  []*models.Photo
		address string
		wantErr error
	}{
		{
			name:    "no photos",
			photos:  nil,
			address: "1 Main St",
			wantErr: ErrMissingPhotos,
		},
		{
			name:    "no photos and no address reports photos first",
			photos:  []*models.Photo{},
			address: "",
			wantErr: ErrMissingPhotos,
		},
		{
			name:    "empty address",
			photos:  []*models.Photo{photo("k", "kitchen")},
			address: "",
			wantErr: ErrMissingAddress,
		},
		{
			name:    "blank address",
			photos:  []*models.Photo{photo("k", "kitchen")},
			address: "   \t",
			wantErr: ErrMissingAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Assemble(input(tt.photos, tt.address))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Assemble() error = %v, want %v", err, tt.wantErr)
			}
			if pages != nil {
				t.Errorf("expected no pages, got %d", len(pages))
			}
			if !IsValidation(err) {
				t.Errorf("expected %v to be a validation error", err)
			}
		})
	}
}

func TestAssembleMainStreetScenario(t *testing.T) {
	list := []*models.Photo{
		photo("ext", "exterior"),
		photo("bed1", "bedroom"),
		photo("bed2", "bedroom"),
		photo("bath", "bathroom"),
	}

	pages, err := Assemble(input(list, "1 Main St"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}

	cover := pages[0]
	if cover.Type != models.PageTypeCover || cover.Title != CoverTitle {
		t.Errorf("unexpected cover page: %+v", cover)
	}
	if len(cover.Photos) != 1 || cover.Photos[0] != list[0] {
		t.Errorf("expected exterior photo on the cover")
	}
	content, ok := cover.Content.(models.CoverContent)
	if !ok {
		t.Fatalf("expected CoverContent, got %T", cover.Content)
	}
	if content.Address != "1 Main St" || content.Price != "£300,000" {
		t.Errorf("unexpected cover content: %+v", content)
	}

	interior := pages[1]
	if interior.Type != models.PageTypeInterior || interior.Title != "Bedroom" {
		t.Errorf("unexpected interior page: %+v", interior)
	}
	if len(interior.Photos) != 3 || interior.Photos[0] != list[1] || interior.Photos[1] != list[2] || interior.Photos[2] != list[3] {
		t.Errorf("unexpected interior photos")
	}

	contact := pages[2]
	if contact.Type != models.PageTypeContact || contact.Title != ContactTitle {
		t.Errorf("unexpected contact page: %+v", contact)
	}
	if c, ok := contact.Content.(models.ContactContent); !ok || c.Agent.Name != "Alex" {
		t.Errorf("unexpected contact content: %+v", contact.Content)
	}
	if len(contact.Photos) != 0 {
		t.Errorf("contact page should have no photos")
	}
}

func TestAssembleInteriorChunking(t *testing.T) {
	for n := 0; n <= 10; n++ {
		t.Run(fmt.Sprintf("%d remainder photos", n), func(t *testing.T) {
			list := []*models.Photo{photo("front", "exterior")}
			for i := 0; i < n; i++ {
				list = append(list, photo(fmt.Sprintf("p%d", i), "kitchen"))
			}

			pages, err := Assemble(input(list, "1 Main St"))
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}

			var interior []models.Page
			for _, p := range pages {
				if p.Type == models.PageTypeInterior {
					interior = append(interior, p)
				}
			}

			wantPages := (n + PhotosPerInteriorPage - 1) / PhotosPerInteriorPage
			if len(interior) != wantPages {
				t.Fatalf("expected %d interior pages, got %d", wantPages, len(interior))
			}

			// every remainder photo appears exactly once, in order
			idx := 1
			for _, p := range interior {
				if len(p.Photos) == 0 || len(p.Photos) > PhotosPerInteriorPage {
					t.Errorf("interior page %d has %d photos", p.ID, len(p.Photos))
				}
				for _, ph := range p.Photos {
					if ph != list[idx] {
						t.Errorf("photo %s out of order on page %d", ph.ID, p.ID)
					}
					idx++
				}
			}
			if idx != len(list) {
				t.Errorf("expected %d interior photos, placed %d", n, idx-1)
			}
		})
	}
}

func TestAssembleSevenInteriorPhotos(t *testing.T) {
	list := []*models.Photo{photo("g", "garden")}
	for i := 0; i < 7; i++ {
		list = append(list, photo(fmt.Sprintf("i%d", i), ""))
	}

	pages, err := Assemble(input(list, "1 Main St"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	sizes := []int{}
	for _, p := range pages {
		if p.Type == models.PageTypeInterior {
			sizes = append(sizes, len(p.Photos))
			if p.Title != DefaultInteriorTitle {
				t.Errorf("expected default title for uncategorized chunk, got %q", p.Title)
			}
		}
	}

	want := []int{3, 3, 1}
	if fmt.Sprint(sizes) != fmt.Sprint(want) {
		t.Errorf("interior page sizes = %v, want %v", sizes, want)
	}
}

func TestAssembleCoverSelection(t *testing.T) {
	tests := []struct {
		name      string
		photos    []*models.Photo
		wantCover string
	}{
		{
			name:      "first exterior or garden photo",
			photos:    []*models.Photo{photo("k", "kitchen"), photo("g", "garden"), photo("e", "exterior")},
			wantCover: "g",
		},
		{
			name:      "first photo when none qualify",
			photos:    []*models.Photo{photo("k", "kitchen"), photo("b", "bedroom")},
			wantCover: "k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Assemble(input(tt.photos, "1 Main St"))
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if pages[0].Type != models.PageTypeCover {
				t.Fatalf("expected cover page first, got %s", pages[0].Type)
			}
			if got := pages[0].Photos[0].ID; got != tt.wantCover {
				t.Errorf("cover photo = %s, want %s", got, tt.wantCover)
			}
		})
	}
}

func TestAssembleInteriorTitles(t *testing.T) {
	list := []*models.Photo{
		photo("e", "exterior"),
		photo("l1", "living room"),
		photo("k1", "kitchen"),
		photo("k2", "kitchen"),
		photo("u", ""),
		photo("b", "bedroom"),
	}

	pages, err := Assemble(input(list, "1 Main St"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if pages[1].Title != "Living room" {
		t.Errorf("expected first chunk title from its first photo, got %q", pages[1].Title)
	}
	if pages[2].Title != DefaultInteriorTitle {
		t.Errorf("expected default title, got %q", pages[2].Title)
	}

	for _, p := range pages[1:3] {
		c, ok := p.Content.(models.InteriorContent)
		if !ok || c.Description != "Spacious family home" {
			t.Errorf("expected full description on page %d, got %+v", p.ID, p.Content)
		}
	}
}

func TestAssembleFloorPlanAndContact(t *testing.T) {
	list := []*models.Photo{photo("e", "exterior"), photo("k", "kitchen")}

	without, err := Assemble(input(list, "1 Main St"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	for _, p := range without {
		if p.Type == models.PageTypeFloorPlan {
			t.Error("unexpected floor plan page")
		}
	}

	in := input(list, "1 Main St")
	in.FloorPlan = &models.FloorPlan{Filename: "plan.png", Source: "/static/uploads/plan.png"}
	with, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(with) != len(without)+1 {
		t.Fatalf("expected one extra page, got %d vs %d", len(with), len(without))
	}
	fp := with[len(with)-2]
	if fp.Type != models.PageTypeFloorPlan || fp.Title != FloorPlanTitle {
		t.Errorf("expected floor plan page before contact, got %+v", fp)
	}
	if c, ok := fp.Content.(models.FloorPlanContent); !ok || c.FloorPlan.Filename != "plan.png" {
		t.Errorf("unexpected floor plan content: %+v", fp.Content)
	}

	for _, pages := range [][]models.Page{without, with} {
		contacts := 0
		for _, p := range pages {
			if p.Type == models.PageTypeContact {
				contacts++
			}
		}
		if contacts != 1 {
			t.Errorf("expected exactly one contact page, got %d", contacts)
		}
		if pages[len(pages)-1].Type != models.PageTypeContact {
			t.Error("expected contact page last")
		}
	}
}

func TestAssembleContactWithoutAgent(t *testing.T) {
	in := intake.Collect([]*models.Photo{photo("k", "kitchen")}, intake.FormFields{Address: "1 Main St"}, nil)
	pages, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	last := pages[len(pages)-1]
	if last.Type != models.PageTypeContact {
		t.Fatalf("expected contact page, got %s", last.Type)
	}
	if c := last.Content.(models.ContactContent); c.Agent != (models.AgentInfo{}) {
		t.Errorf("expected empty agent, got %+v", c.Agent)
	}
}

func TestAssemblePageIDsContiguous(t *testing.T) {
	list := []*models.Photo{photo("e", "exterior")}
	for i := 0; i < 8; i++ {
		list = append(list, photo(fmt.Sprintf("p%d", i), "bedroom"))
	}
	in := input(list, "1 Main St")
	in.FloorPlan = &models.FloorPlan{Filename: "plan.png"}

	pages, err := Assemble(in)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	for i, p := range pages {
		if p.ID != i+1 {
			t.Errorf("page %d has ID %d", i, p.ID)
		}
	}
}

func TestBuildBrochure(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine := &Engine{now: func() time.Time { return fixed }}

	list := []*models.Photo{photo("e", "exterior"), photo("k", "kitchen")}
	b, err := engine.Build(input(list, "1 Main St"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !b.GeneratedAt.Equal(fixed) {
		t.Errorf("GeneratedAt = %s, want %s", b.GeneratedAt, fixed)
	}
	if len(b.Photos) != 2 {
		t.Errorf("expected master photo list of 2, got %d", len(b.Photos))
	}

	// every page photo must be in the master list
	master := map[*models.Photo]bool{}
	for _, p := range b.Photos {
		master[p] = true
	}
	for _, page := range b.Pages {
		for _, p := range page.Photos {
			if !master[p] {
				t.Errorf("page %d references photo %s missing from master list", page.ID, p.ID)
			}
		}
	}
}

func TestBuildRecoversInternalFailure(t *testing.T) {
	engine := NewEngine()

	// a nil entry makes cover selection dereference nil
	b, err := engine.Build(input([]*models.Photo{nil}, "1 Main St"))
	if b != nil {
		t.Error("expected no brochure")
	}

	var internal *InternalAssemblyError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalAssemblyError, got %v", err)
	}
	if IsValidation(err) {
		t.Error("internal failure should not be a validation error")
	}
}

func TestGeneratePublishesOnlyOnSuccess(t *testing.T) {
	engine := NewEngine()
	pub := &recordingPublisher{}

	if _, err := engine.Generate(pub, input(nil, "1 Main St")); !errors.Is(err, ErrMissingPhotos) {
		t.Fatalf("expected ErrMissingPhotos, got %v", err)
	}
	if _, err := engine.Generate(pub, input([]*models.Photo{photo("k", "kitchen")}, "")); !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}
	if _, err := engine.Generate(pub, input([]*models.Photo{nil}, "1 Main St")); err == nil {
		t.Fatal("expected internal failure")
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected nothing published, got %d", len(pub.published))
	}

	b, err := engine.Generate(pub, input([]*models.Photo{photo("k", "kitchen")}, "1 Main St"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != b {
		t.Error("expected the built brochure to be published once")
	}
}
