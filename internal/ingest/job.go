package ingest

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one queued document ingestion.
type Job struct {
	ID string `gorm:"primaryKey;size:26" json:"job_id"` // ULID length

	Source string `gorm:"type:varchar(255);not null" json:"source"`
	Text   string `gorm:"type:longtext;not null" json:"-"`

	Status JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when the job has run
	ChunksTotal  int     `json:"chunks_total"`
	ChunksFailed int     `json:"chunks_failed"`
	Error        *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Job) TableName() string { return "ingest_jobs" }

func NewJobID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
