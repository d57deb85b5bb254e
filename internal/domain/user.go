package domain

import "time"

// User Model (profile). WalletBalance is in whole currency units and is only
// mutated through the atomic store procedures (deduct / approve top-up).
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	Email         string    `gorm:"unique;not null" json:"email"`             // Unique login email
	Password      string    `gorm:"not null" json:"-"`                        // Hashed password, never serialized
	DisplayName   string    `json:"display_name"`                             // Editable display name
	AvatarURL     string    `json:"avatar_url"`                               // Avatar reference
	WalletBalance int64     `gorm:"not null;default:0" json:"wallet_balance"` // Non-negative wallet balance
	CreatedAt     time.Time `json:"created_at"`                               // Timestamp of creation
}
