package entity

import (
	"wellness-planner/core/entity"
)

// User is an account in the planner. Password is empty for accounts
// created through Google sign-in.
type User struct {
	Email     *string `db:"email" json:"email,omitempty"`
	Username  *string `db:"username" json:"username,omitempty"`
	Password  string  `db:"password" json:"-"`
	FullName  *string `db:"full_name" json:"full_name,omitempty"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
	Timezone  string  `db:"timezone" json:"timezone"`
	IsActive  bool    `db:"is_active" json:"is_active"`
	GoogleID  *string `db:"google_id" json:"-"`
	entity.BaseEntity
}
