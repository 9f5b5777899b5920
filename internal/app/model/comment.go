package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength bounds the comment message.
const MaxCommentLength = 500

// Comment is a message posted under a deal. Deal and user are weak
// references by ID; comments are purged when their deal is removed.
type Comment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	DealID    string    `gorm:"type:uuid;index;not null" json:"dealId"`
	PostedBy  string    `gorm:"type:uuid;index;not null" json:"postedBy"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a time-ordered UUID before insert.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = id.String()
	}
	return nil
}
