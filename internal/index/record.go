package index

import "time"

// Record is one stored text chunk with its embedding vector. The vector is
// persisted JSON-encoded in vector_json and decoded into Vector on load.
type Record struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	VectorJSON string    `gorm:"column:vector_json;type:text;not null" json:"-"`
	Source     string    `gorm:"type:varchar(255);index" json:"source"`
	CreatedAt  time.Time `json:"created_at"`

	Vector []float32 `gorm:"-" json:"-"`
}

func (Record) TableName() string { return "embeddings" }

// SearchResult is a transient per-query match.
type SearchResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}
