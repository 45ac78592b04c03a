package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// PageRow is one row of the page manifest handed to the export pipeline
type PageRow struct {
	PageID      int      `parquet:"page_id"`
	Type        string   `parquet:"type"`
	Title       string   `parquet:"title"`
	PhotoIDs    []string `parquet:"photo_ids,list"`
	PhotoFiles  []string `parquet:"photo_files,list"`
	Address     string   `parquet:"address,optional"`
	Price       string   `parquet:"price,optional"`
	Description string   `parquet:"description,optional"`
	FloorPlan   string   `parquet:"floorplan,optional"`
	AgentName   string   `parquet:"agent_name,optional"`
	AgentPhone  string   `parquet:"agent_phone,optional"`
	AgentEmail  string   `parquet:"agent_email,optional"`
}

// Rows flattens the brochure pages into manifest rows
func Rows(b *models.Brochure) []PageRow {
	rows := make([]PageRow, 0, len(b.Pages))
	for _, page := range b.Pages {
		row := PageRow{
			PageID:     page.ID,
			Type:       string(page.Type),
			Title:      page.Title,
			PhotoIDs:   make([]string, 0, len(page.Photos)),
			PhotoFiles: make([]string, 0, len(page.Photos)),
		}
		for _, p := range page.Photos {
			row.PhotoIDs = append(row.PhotoIDs, p.ID)
			row.PhotoFiles = append(row.PhotoFiles, p.Filename)
		}

		switch c := page.Content.(type) {
		case models.CoverContent:
			row.Address = c.Address
			row.Price = c.Price
		case models.InteriorContent:
			row.Description = c.Description
		case models.FloorPlanContent:
			row.FloorPlan = c.FloorPlan.Source
		case models.ContactContent:
			row.AgentName = c.Agent.Name
			row.AgentPhone = c.Agent.Phone
			row.AgentEmail = c.Agent.Email
		}

		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes the page manifest to path
func WriteParquet(path string, b *models.Brochure) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, Rows(b)); err != nil {
		return fmt.Errorf("failed to write parquet manifest: %w", err)
	}
	return nil
}

// ReadParquet reads a page manifest written by WriteParquet
func ReadParquet(path string) ([]PageRow, error) {
	rows, err := parquet.ReadFile[PageRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet manifest: %w", err)
	}
	return rows, nil
}

// EncodeYAML writes the brochure as a YAML document
func EncodeYAML(w io.Writer, b *models.Brochure) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// WriteYAML saves the brochure as YAML to path
func WriteYAML(path string, b *models.Brochure) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	if err := EncodeYAML(&sb, b); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
