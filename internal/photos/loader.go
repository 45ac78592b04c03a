package photos

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Loader reads an externally maintained photo list from disk
type Loader struct {
	path string
}

// NewLoader creates a new photo list loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load loads photos from a .parquet, .jsonl or .yaml file. Photos without
// an ID are given one.
func (l *Loader) Load() ([]*models.Photo, error) {
	var (
		list []*models.Photo
		err  error
	)

	ext := strings.ToLower(filepath.Ext(l.path))
	switch ext {
	case ".parquet":
		list, err = l.loadParquet()
	case ".jsonl", ".json":
		list, err = l.loadJSONL()
	case ".yaml", ".yml":
		list, err = l.loadYAML()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .yaml)", ext)
	}
	if err != nil {
		return nil, err
	}

	for i, p := range list {
		if p == nil {
			return nil, fmt.Errorf("photo %d is empty", i)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
	}

	slog.Debug("Loaded photo list", "path", l.path, "photos", len(list))
	return list, nil
}

func (l *Loader) loadJSONL() ([]*models.Photo, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo list: %w", err)
	}
	defer file.Close()

	var list []*models.Photo
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var p models.Photo
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		list = append(list, &p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading photo list: %w", err)
	}

	return list, nil
}

func (l *Loader) loadYAML() ([]*models.Photo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo list: %w", err)
	}

	var doc struct {
		Photos []*models.Photo `yaml:"photos"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML photo list: %w", err)
	}

	return doc.Photos, nil
}

func (l *Loader) loadParquet() ([]*models.Photo, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.Photo](pf)
	defer reader.Close()

	var list []*models.Photo
	rows := make([]models.Photo, 128)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			p := rows[i]
			list = append(list, &p)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return list, nil
}
