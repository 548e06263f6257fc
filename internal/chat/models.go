package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Thread struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"thread_id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"thread_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (Thread) TableName() string { return "threads" }

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ThreadID  uint64    `gorm:"index:idx_msg_thread_ts,priority:1;not null" json:"thread_id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"-"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"index:idx_msg_thread_ts,priority:2;not null" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }
