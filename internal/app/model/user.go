package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
)

// User is bound to exactly one external authentication identity (UID from
// the identity provider). The service never issues identities itself.
type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	UID       string    `gorm:"uniqueIndex;not null" json:"uid"`             // external identity
	Email     string    `gorm:"index;not null" json:"email"`                 // best-effort lookup, not guaranteed unique
	Nickname  string    `gorm:"not null" json:"nickname"`
	Avatar    string    `gorm:"type:text" json:"avatar"`                     // avatar URL
	Role      UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a time-ordered UUID before insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id.String()
	}
	return nil
}

// IsModerator reports whether the user may perform moderator transitions.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
