package domain

import "time"

// Top-up request statuses.
const (
	TopupStatusPending  = "pending"
	TopupStatusApproved = "approved"
	TopupStatusRejected = "rejected"
)

// TopupRequest Model. A user-submitted claim of an out-of-band payment; only
// an admin transitions it, and the approved transition credits the wallet in
// the same transaction.
type TopupRequest struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`  // UUID primary key
	UserID         uint      `gorm:"index;not null" json:"user_id"` // Requesting user
	Amount         int64     `gorm:"not null" json:"amount"`        // Requested credit amount
	PhoneNumber    string    `gorm:"size:32" json:"phone_number"`   // Contact phone for verification
	TransactionRef string    `gorm:"size:64" json:"transaction_ref"`
	Status         string    `gorm:"size:16;index" json:"status"` // pending, approved or rejected
	ReviewedBy     *uint     `json:"reviewed_by"`                 // Admin who settled the request
	CreatedAt      time.Time `json:"created_at"`                  // Timestamp of creation
}
