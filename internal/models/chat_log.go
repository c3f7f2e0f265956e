package models

import "time"

// Role identifies who authored a chat log row.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// EmptyMessage is stored in place of a blank message body.
const EmptyMessage = "(내용 없음)"

// ChatLog is an append-only conversation row. The owner must already exist
// as a ChannelUser when the row is written.
type ChatLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChannelUserID string    `json:"channel_user_id" gorm:"size:64;index;not null"`
	Role          Role      `json:"role" gorm:"size:10;not null"`
	Message       string    `json:"message" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}

// MessageOrPlaceholder substitutes EmptyMessage for blank text.
func MessageOrPlaceholder(text string) string {
	if text == "" {
		return EmptyMessage
	}
	return text
}
