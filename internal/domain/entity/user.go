package entity

import (
	"strings"
	"time"
)

// User holds the login credential of a tutor
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Tutor *Tutor `gorm:"foreignKey:UserID" json:"tutor,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail is the canonical form emails are stored and looked up with.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
