package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a merchant record. Deals reference stores by ID only; the store
// registry does not own deal lifecycle.
type Store struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `gorm:"index;not null" json:"name"` // display name, uniqueness recommended but not enforced
	Logo      string    `gorm:"type:text" json:"logo"`      // logo URL
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Store) TableName() string {
	return "stores"
}

// BeforeCreate assigns a time-ordered UUID before insert.
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = id.String()
	}
	return nil
}
