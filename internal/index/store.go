package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// RecordStore is the durable side of the index.
type RecordStore interface {
	All(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, r *Record) error
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) All(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}

	out := recs[:0]
	for _, r := range recs {
		if r.VectorJSON == "" {
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(r.VectorJSON), &vec); err != nil {
			log.Printf("index store: skipping record id=%d with unreadable vector: %v", r.ID, err)
			continue
		}
		r.Vector = vec
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, r *Record) error {
	b, err := json.Marshal(r.Vector)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}
	r.VectorJSON = string(b)
	return s.db.WithContext(ctx).Create(r).Error
}
