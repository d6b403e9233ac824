package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEmailRequired is returned when a user is created without an email.
var ErrEmailRequired = errors.New("email address is required")

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool           `gorm:"not null;default:false" json:"is_superuser"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail lower-cases the domain part of an email address. The local
// part is case-sensitive and left untouched.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// NewUser builds a regular user from a normalized email and an
// already-hashed credential.
func NewUser(email, name, passwordHash string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	return &User{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
	}, nil
}

// NewSuperuser builds a user with staff and superuser flags set.
func NewSuperuser(email, name, passwordHash string) (*User, error) {
	user, err := NewUser(email, name, passwordHash)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return user, nil
}
