package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prairie-data/wellscan/internal/document"
	"github.com/prairie-data/wellscan/internal/extract"
	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/ocr"
	"github.com/prairie-data/wellscan/internal/store"
)

var (
	extractInputDir string
	extractLimit    int
	extractFiles    string
	extractMaxPages int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract well records from recognizer output documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		extractor, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}
		loader := document.NewLoader(cfg.OCR, extractor)
		engine := extract.New(cfg.Extract)

		inputDir := extractInputDir
		if inputDir == "" {
			inputDir = cfg.Extract.InputDir
		}
		paths, err := document.List(inputDir)
		if err != nil {
			return err
		}
		paths = filterPaths(paths, extractFiles)
		if extractLimit > 0 && len(paths) > extractLimit {
			paths = paths[:extractLimit]
		}
		if len(paths) == 0 {
			return eris.Errorf("extract: no documents found in %s", inputDir)
		}

		run, err := st.StartRun(ctx)
		if err != nil {
			return err
		}
		run.Documents = len(paths)

		for _, path := range paths {
			if err := processDocument(ctx, loader, engine, st, path, run); err != nil {
				run.Failures++
				zap.L().Warn("document failed",
					zap.String("path", path),
					zap.Error(err))
			}
		}

		if err := st.FinishRun(ctx, run); err != nil {
			return err
		}

		zap.L().Info("extraction complete",
			zap.String("run_id", run.ID),
			zap.Int("documents", run.Documents),
			zap.Int("wells", run.Wells),
			zap.Int("stim_rows", run.StimRows),
			zap.Int("failures", run.Failures))
		return nil
	},
}

func processDocument(ctx context.Context, loader *document.Loader, engine *extract.Extractor, st store.Store, path string, run *model.ExtractionRun) error {
	doc, err := loader.LoadWithFallback(ctx, path)
	if err != nil {
		// Record the document even when its recognizer output cannot be
		// read, so the run accounts for every source file.
		source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".pdf"
		stub := &model.WellRecord{
			PDFSource:  source,
			WellFileNo: extract.ExtractWellFileFromFilename(source),
		}
		if _, upsertErr := st.UpsertWell(ctx, stub); upsertErr != nil {
			return eris.Wrapf(upsertErr, "extract: record unreadable document %s", source)
		}
		return err
	}
	if extractMaxPages > 0 && len(doc.Pages) > extractMaxPages {
		doc.Pages = doc.Pages[:extractMaxPages]
	}

	rec := engine.Extract(*doc)
	if _, err := st.UpsertWell(ctx, rec); err != nil {
		return err
	}

	run.Wells++
	run.StimRows += len(rec.Stimulations)
	zap.L().Info("extracted well",
		zap.String("source", rec.PDFSource),
		zap.String("well_name", rec.WellName),
		zap.Int("stim_rows", len(rec.Stimulations)))
	return nil
}

// filterPaths keeps paths named in the comma-separated list. Names may be
// given as W12345.json or as the source W12345.pdf.
func filterPaths(paths []string, files string) []string {
	files = strings.TrimSpace(files)
	if files == "" {
		return paths
	}

	names := map[string]bool{}
	for _, n := range strings.Split(files, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names[n] = true
		}
	}

	var kept []string
	for _, p := range paths {
		base := filepath.Base(p)
		asPDF := strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
		if names[base] || names[asPDF] {
			kept = append(kept, p)
		}
	}
	return kept
}

func init() {
	extractCmd.Flags().StringVar(&extractInputDir, "input-dir", "", "document directory (default from config)")
	extractCmd.Flags().IntVar(&extractLimit, "limit", 0, "only process first N documents")
	extractCmd.Flags().StringVar(&extractFiles, "files", "", "comma-separated document names (e.g. W28651.pdf,W20197.pdf)")
	extractCmd.Flags().IntVar(&extractMaxPages, "max-pages", 0, "max pages per document (default: all)")
	rootCmd.AddCommand(extractCmd)
}
