package domain

import "time"

// Video statuses.
const (
	VideoStatusPending   = "pending"
	VideoStatusCompleted = "completed"
	VideoStatusFailed    = "failed"
)

// Video Model. Rows are written only by the generation workflow and removed
// only by admins; users never update a video after creation.
type Video struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`  // UUID primary key
	UserID    uint      `gorm:"index;not null" json:"user_id"` // Owning user
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	VideoURL  *string   `json:"video_url"`                    // Nullable playable URL
	IsPremium bool      `gorm:"not null" json:"is_premium"`   // Billed against wallet instead of daily quota
	Status    string    `gorm:"size:16;index" json:"status"`  // pending, completed or failed
	CreatedAt time.Time `gorm:"index" json:"created_at"`      // Timestamp of creation
}
