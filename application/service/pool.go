package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// ImportSource is one image to ingest into the pool.
type ImportSource struct {
	URL   string
	Phase int
}

// ImportReport summarizes one ingestion run.
type ImportReport struct {
	Imported   int
	Duplicates int
	Embedded   int
	NoFace     int
	Failed     int
}

// Pool ingests candidate images and runs embedding extraction over them with
// a bounded worker pool.
type Pool struct {
	store      image.PoolStore
	embeddings *Embeddings
	cfg        config.AppConfig
	logger     *slog.Logger
}

// NewPool creates the pool ingestion service.
func NewPool(store image.PoolStore, embeddings *Embeddings, cfg config.AppConfig, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		store:      store,
		embeddings: embeddings,
		cfg:        cfg,
		logger:     logger,
	}
}

// Import registers the given sources in the pool, deduplicating by URL, then
// extracts embeddings for the newly added images. Images without a usable
// face are kept but never ranked; detector failures leave the image pending
// so a later run can retry it.
func (s *Pool) Import(ctx context.Context, sources []ImportSource) (ImportReport, error) {
	var report ImportReport
	added := make([]image.PoolImage, 0, len(sources))

	for _, src := range sources {
		_, err := s.store.GetByURL(ctx, src.URL)
		if err == nil {
			report.Duplicates++
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return report, fmt.Errorf("%w: lookup image: %v", ErrDependency, err)
		}

		img, err := image.NewPoolImage(src.URL, src.Phase)
		if err != nil {
			return report, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := s.store.Save(ctx, img); err != nil {
			return report, fmt.Errorf("%w: save image: %v", ErrDependency, err)
		}
		report.Imported++
		added = append(added, img)
	}

	embedded, noFace, failed := s.embedAll(ctx, added)
	report.Embedded = embedded
	report.NoFace = noFace
	report.Failed = failed

	s.logger.Info("pool import finished",
		"imported", report.Imported,
		"duplicates", report.Duplicates,
		"embedded", report.Embedded,
		"no_face", report.NoFace,
		"failed", report.Failed,
	)
	return report, nil
}

// Pending returns active images that still lack an embedding, for retrying
// extraction after transient detector outages.
func (s *Pool) Pending(ctx context.Context) ([]image.PoolImage, error) {
	images, err := s.store.Find(ctx, store.WithActive(), store.WithCondition("has_embedding", false))
	if err != nil {
		return nil, fmt.Errorf("%w: load pending images: %v", ErrDependency, err)
	}
	return images, nil
}

// Retry runs embedding extraction over every pending image.
func (s *Pool) Retry(ctx context.Context) (ImportReport, error) {
	pending, err := s.Pending(ctx)
	if err != nil {
		return ImportReport{}, err
	}
	embedded, noFace, failed := s.embedAll(ctx, pending)
	return ImportReport{Embedded: embedded, NoFace: noFace, Failed: failed}, nil
}

// embedAll runs the detector over the given images through a semaphore so at
// most WorkerCount detections are in flight.
func (s *Pool) embedAll(ctx context.Context, images []image.PoolImage) (embedded, noFace, failed int) {
	sem := semaphore.NewWeighted(int64(s.cfg.WorkerCount()))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, img := range images {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			failed++
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(img image.PoolImage) {
			defer wg.Done()
			defer sem.Release(1)

			_, err := s.embeddings.GetOrCompute(ctx, img)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if saveErr := s.store.Save(ctx, img.WithEmbedding()); saveErr != nil {
					s.logger.Error("mark image embedded", "image_id", img.ID(), "error", saveErr)
					failed++
					return
				}
				embedded++
			case errors.Is(err, ErrNotDetected):
				noFace++
			default:
				s.logger.Warn("embedding extraction failed", "image_id", img.ID(), "error", err)
				failed++
			}
		}(img)
	}

	wg.Wait()
	return embedded, noFace, failed
}
