package models

import "time"

// ChannelUser is a chat-platform customer, keyed by the platform's owner id.
// Rows are upserted on contact and never deleted.
type ChannelUser struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChannelUserID string    `json:"channel_user_id" gorm:"size:64;uniqueIndex;not null"`
	Name          *string   `json:"name,omitempty" gorm:"size:100"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ChannelUser) TableName() string {
	return "channel_users"
}

// DisplayName returns the stored name or an empty string.
func (u *ChannelUser) DisplayName() string {
	if u == nil || u.Name == nil {
		return ""
	}
	return *u.Name
}
