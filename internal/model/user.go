package model

import (
	"time"
)

type User struct {
	ID              string     `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	Username        string     `db:"username" json:"username"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"emailVerifiedAt,omitempty"`
	OnboardedAt     *time.Time `db:"onboarded_at" json:"onboardedAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`

	// Computed fields (not in database)
	AvatarURL string `db:"-" json:"avatarUrl,omitempty"`
}

func (u *User) IsOnboarded() bool {
	return u.OnboardedAt != nil
}
