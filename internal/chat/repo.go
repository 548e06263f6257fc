package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
)

var ErrThreadNotFound = gorm.ErrRecordNotFound

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateThread(ctx context.Context, t *Thread) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) GetThread(ctx context.Context, threadID uint64) (*Thread, error) {
	var t Thread
	if err := r.db.WithContext(ctx).First(&t, "id = ?", threadID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListThreads returns a user's threads, most recently updated first.
func (r *Repo) ListThreads(ctx context.Context, userID string) ([]Thread, error) {
	var threads []Thread
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *Repo) RenameThread(ctx context.Context, threadID uint64, name string) error {
	return r.db.WithContext(ctx).Model(&Thread{}).
		Where("id = ?", threadID).
		Update("name", name).Error
}

// DeleteThread removes a thread and its messages.
func (r *Repo) DeleteThread(ctx context.Context, threadID uint64) error {
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Delete(&Message{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&Thread{}, "id = ?", threadID).Error
}

// DeleteByUser removes all of a user's messages and threads (conversation reset).
func (r *Repo) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Message{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Thread{}).Error
}

// InsertMessage appends a message and refreshes the owning thread's
// updated_at so thread ordering tracks the latest activity.
func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&Thread{}).
		Where("id = ?", m.ThreadID).
		Update("updated_at", time.Now()).Error
}

// ListMessages returns a thread's messages in chronological order, message
// id breaking timestamp ties.
func (r *Repo) ListMessages(ctx context.Context, threadID uint64) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
