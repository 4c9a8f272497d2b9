package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an administrator account for the catalog API.
type User struct {
	BaseModel
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL" json:"email" validate:"required,email"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName   string     `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
