package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/brochurer/internal/assembly"
	"github.com/lehigh-university-libraries/brochurer/internal/config"
	"github.com/lehigh-university-libraries/brochurer/internal/intake"
	"github.com/lehigh-university-libraries/brochurer/internal/labeling"
	"github.com/lehigh-university-libraries/brochurer/internal/manifest"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/lehigh-university-libraries/brochurer/internal/photos"
	"github.com/lehigh-university-libraries/brochurer/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type generateOptions struct {
	formPath      string
	photosPath    string
	floorPlanPath string
	outputPath    string
	manifestPath  string
	label         bool
	provider      string
	model         string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Assemble a brochure from a form file and a photo list",
		Long: `Assemble a brochure from a YAML property/agent form and a photo list.

The photo list may be a .parquet, .jsonl or .yaml file. Photo sources that
are relative paths are resolved against the photo list's directory when
labeling. The brochure is written as YAML, and optionally as a Parquet page
manifest for the export pipeline.`,
		Example: `  # Build a brochure and print it
  brochurer generate --form form.yaml --photos photos.jsonl

  # Include a floor plan and write both outputs
  brochurer generate --form form.yaml --photos photos.parquet \
    --floorplan plan.png --output brochure.yaml --manifest pages.parquet

  # Label uncategorized photos with Gemini first
  brochurer generate --form form.yaml --photos photos.yaml --label --provider gemini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), root.config, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.formPath, "form", "", "Path to the YAML property/agent form (required)")
	cmd.Flags().StringVar(&opts.photosPath, "photos", "", "Path to the photo list (.parquet, .jsonl or .yaml) (required)")
	cmd.Flags().StringVar(&opts.floorPlanPath, "floorplan", "", "Path to a floor plan image")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "-", "Brochure YAML output path (- for stdout)")
	cmd.Flags().StringVar(&opts.manifestPath, "manifest", "", "Write a Parquet page manifest to this path")
	cmd.Flags().BoolVar(&opts.label, "label", false, "Label uncategorized photos with a vision model before assembly")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider for labeling (ollama, openai, or gemini)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (defaults to provider's default)")

	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("photos")
	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, opts *generateOptions, out io.Writer) error {
	form, err := loadForm(opts.formPath)
	if err != nil {
		return err
	}

	list, err := photos.NewLoader(opts.photosPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}

	if opts.label {
		if err := labelPhotos(ctx, cfg, opts, list); err != nil {
			return err
		}
	}

	var floorplan *models.FloorPlan
	if opts.floorPlanPath != "" {
		if _, err := os.Stat(opts.floorPlanPath); err != nil {
			return fmt.Errorf("floor plan not found: %w", err)
		}
		floorplan = &models.FloorPlan{
			Filename: filepath.Base(opts.floorPlanPath),
			Source:   opts.floorPlanPath,
		}
	}

	store := storage.NewBrochureStore()
	if _, err := assembly.NewEngine().Generate(store, intake.Collect(list, form, floorplan)); err != nil {
		if assembly.IsValidation(err) {
			return fmt.Errorf("cannot generate brochure: %w", err)
		}
		return fmt.Errorf("%s: %w", assembly.UserMessage(err), err)
	}

	brochure, _ := store.Current()

	if opts.outputPath == "" || opts.outputPath == "-" {
		if err := manifest.EncodeYAML(out, brochure); err != nil {
			return err
		}
	} else {
		if err := manifest.WriteYAML(opts.outputPath, brochure); err != nil {
			return err
		}
		fmt.Fprintf(out, "Brochure with %d pages saved to: %s\n", len(brochure.Pages), opts.outputPath)
	}

	if opts.manifestPath != "" {
		if err := manifest.WriteParquet(opts.manifestPath, brochure); err != nil {
			return err
		}
		slog.Info("Page manifest written", "path", opts.manifestPath, "pages", len(brochure.Pages))
	}

	return nil
}

func loadForm(path string) (intake.FormFields, error) {
	var form intake.FormFields

	data, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("failed to read form: %w", err)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("failed to parse form YAML: %w", err)
	}
	return form, nil
}

func labelPhotos(ctx context.Context, cfg *config.Config, opts *generateOptions, list []*models.Photo) error {
	providerName := opts.provider
	if providerName == "" {
		providerName = cfg.LabelProvider
	}
	provider, err := labeling.NewProvider(providerName, cfg.OllamaURL)
	if err != nil {
		return err
	}

	model := opts.model
	if model == "" {
		model = cfg.LabelModel
	}
	if model == "" {
		model = labeling.DefaultModel(providerName)
	}

	baseDir := filepath.Dir(opts.photosPath)
	read := func(p *models.Photo) ([]byte, error) {
		path := p.Source
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return os.ReadFile(path)
	}

	labeled, err := labeling.NewService(provider, model, read).LabelPhotos(ctx, list)
	if err != nil {
		return fmt.Errorf("photo labeling interrupted: %w", err)
	}
	slog.Info("Photo labeling finished", "provider", providerName, "model", model, "labeled", labeled)
	return nil
}
