package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/bakaevs/cs-gpt/internal/ai"
	"github.com/bakaevs/cs-gpt/internal/index"

	"gorm.io/gorm"
)

// Service chunks documents, embeds each chunk and feeds the embedding index.
// Ingestion tolerates partial failure: a chunk that cannot be embedded or
// stored is logged and skipped, the rest continue.
type Service struct {
	db        *gorm.DB
	embedder  ai.Embedder
	idx       *index.Index
	chunkSize int
}

func NewService(db *gorm.DB, embedder ai.Embedder, idx *index.Index, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Service{db: db, embedder: embedder, idx: idx, chunkSize: chunkSize}
}

// IngestDocument splits the text and indexes every chunk. Returns how many
// chunks were indexed and how many were skipped.
func (s *Service) IngestDocument(ctx context.Context, source, text string) (ingested, failed int, err error) {
	chunks := SplitText(text, s.chunkSize)
	if len(chunks) == 0 {
		return 0, 0, fmt.Errorf("document %q contains no text", source)
	}

	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			log.Printf("ingest: embedding chunk %d of %q failed, skipping: %v", i, source, err)
			failed++
			continue
		}
		if _, err := s.idx.Add(ctx, chunk, vec, source); err != nil {
			log.Printf("ingest: storing chunk %d of %q failed, skipping: %v", i, source, err)
			failed++
			continue
		}
		ingested++
	}
	return ingested, failed, nil
}

// Job lifecycle, used by the HTTP handler (enqueue) and the worker (run).

func (s *Service) CreateJob(ctx context.Context, source, text string) (*Job, error) {
	job := &Job{
		ID:     NewJobID(),
		Source: source,
		Text:   text,
		Status: JobQueued,
	}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := s.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Service) MarkJobRunning(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

// RunJob executes a queued ingestion job and records its outcome.
func (s *Service) RunJob(ctx context.Context, id string) error {
	_ = s.MarkJobRunning(ctx, id)

	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}

	ingested, failed, err := s.IngestDocument(ctx, job.Source, job.Text)
	if err != nil {
		msg := err.Error()
		_ = s.db.WithContext(ctx).Model(&Job{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": JobFailed, "error": msg}).Error
		return err
	}

	return s.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        JobSucceeded,
			"chunks_total":  ingested + failed,
			"chunks_failed": failed,
			"error":         nil,
		}).Error
}
