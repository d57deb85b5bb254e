package domain

// AdminUser is a set-membership row: its presence grants admin privilege.
// Checked, never modified, by the application.
type AdminUser struct {
	UserID uint `gorm:"primaryKey" json:"user_id"` // Privileged user
}
