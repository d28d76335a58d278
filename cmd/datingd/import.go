package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	engine "github.com/Kidkender/dating-ai-engine"
	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/log"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func importCmd() *cobra.Command {
	var (
		envFile string
		dbURL   string
		phase   int
		retry   bool
	)

	cmd := &cobra.Command{
		Use:   "import [source]",
		Short: "Import images into the candidate pool",
		Long: `Import images into the candidate pool and extract face embeddings.

The source is either a directory of image files or a text file with one
image URL per line. Images already in the pool are skipped. With --retry,
no source is needed: embedding extraction is re-run over images that
previously failed transiently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !retry && len(args) == 0 {
				return fmt.Errorf("a source is required unless --retry is given")
			}
			source := ""
			if len(args) > 0 {
				source = args[0]
			}
			return runImport(cmd, envFile, dbURL, source, phase, retry)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (overrides DB_URL env var)")
	cmd.Flags().IntVar(&phase, "phase", 0, "Phase eligibility tag for imported images (0 = any phase)")
	cmd.Flags().BoolVar(&retry, "retry", false, "Re-run embedding extraction over pending images")

	return cmd
}

func runImport(cmd *cobra.Command, envFile, dbURL, source string, phase int, retry bool) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbURL != "" {
		cfg = cfg.Apply(config.WithDBURL(dbURL))
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()

	client, err := engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(logger.Slog()),
	)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx := cmd.Context()

	var report service.ImportReport
	if retry && source == "" {
		report, err = client.Pool().Retry(ctx)
	} else {
		sources, srcErr := collectSources(source, phase)
		if srcErr != nil {
			return srcErr
		}
		report, err = client.Pool().Import(ctx, sources)
	}
	if err != nil {
		return err
	}

	cmd.Printf("imported=%d duplicates=%d embedded=%d no_face=%d failed=%d\n",
		report.Imported, report.Duplicates, report.Embedded, report.NoFace, report.Failed)
	return nil
}

// collectSources reads image locations from a directory or a URL list file.
func collectSources(source string, phase int) ([]service.ImportSource, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if info.IsDir() {
		return collectFromDir(source, phase)
	}
	return collectFromList(source, phase)
}

func collectFromDir(dir string, phase int) ([]service.ImportSource, error) {
	var sources []service.ImportSource
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		sources = append(sources, service.ImportSource{URL: "file://" + abs, Phase: phase})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return sources, nil
}

func collectFromList(path string, phase int) ([]service.ImportSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var sources []service.ImportSource
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, service.ImportSource{URL: line, Phase: phase})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sources, nil
}
