package photos

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/parquet-go/parquet-go"
)

func TestLoaderJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.jsonl")
	content := `{"id":"p1","filename":"front.jpg","source":"/static/uploads/front.jpg","category":"exterior"}

{"filename":"kitchen.jpg","source":"/static/uploads/kitchen.jpg","category":"kitchen"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	list, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(list))
	}
	if list[0].ID != "p1" || list[0].Category != "exterior" {
		t.Errorf("unexpected first photo: %+v", list[0])
	}
	if list[1].ID == "" {
		t.Error("expected a generated ID for the second photo")
	}
}

func TestLoaderYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.yaml")
	content := `photos:
  - filename: garden.jpg
    source: uploads/garden.jpg
    category: garden
  - filename: bath.jpg
    source: uploads/bath.jpg
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	list, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(list))
	}
	if list[0].Category != "garden" || list[1].Category != "" {
		t.Errorf("unexpected categories: %q, %q", list[0].Category, list[1].Category)
	}
}

func TestLoaderParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.parquet")
	rows := []models.Photo{
		{ID: "a", Filename: "a.jpg", Source: "uploads/a.jpg", Category: "bedroom", Width: 800, Height: 600},
		{ID: "b", Filename: "b.jpg", Source: "uploads/b.jpg"},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("failed to write parquet fixture: %v", err)
	}

	list, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(list))
	}
	if list[0].Category != "bedroom" || list[0].Width != 800 {
		t.Errorf("unexpected first photo: %+v", list[0])
	}
	if list[0] == list[1] {
		t.Error("expected distinct photo pointers")
	}
}

func TestLoaderYAMLEmptyEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.yaml")
	content := `photos:
  - filename: a.jpg
  -
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	list, err := NewLoader(path).Load()
	if err == nil {
		t.Fatalf("expected error for empty entry, got %d photos", len(list))
	}
	if !strings.Contains(err.Error(), "photo 1 is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoaderUnsupportedFormat(t *testing.T) {
	_, err := NewLoader("photos.csv").Load()
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}
