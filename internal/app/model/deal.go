package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DealStatus string

const (
	DealStatusActive  DealStatus = "ACTIVE"
	DealStatusExpired DealStatus = "EXPIRED"
	DealStatusRemoved DealStatus = "REMOVED" // terminal
)

// CanTransitionTo reports whether the deal state machine permits moving from
// s to next. REMOVED is terminal.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	switch s {
	case DealStatusActive:
		return next == DealStatusExpired || next == DealStatusRemoved
	case DealStatusExpired:
		return next == DealStatusRemoved
	default:
		return false
	}
}

type VoteDirection string

const (
	VoteUp      VoteDirection = "UP"
	VoteDown    VoteDirection = "DOWN"
	VoteRetract VoteDirection = "RETRACT"
)

// Deal is the central entity of the ledger. PostedBy, Store and Category are
// weak references held by ID/path only; the ledger validates them at write
// time but does not own their lifecycle.
type Deal struct {
	ID            string      `gorm:"type:uuid;primarykey" json:"id"`
	PostedBy      string      `gorm:"type:uuid;index;not null" json:"postedBy"` // owning user, immutable
	StoreID       string      `gorm:"type:uuid;index;not null;column:store_id" json:"store"` // immutable
	Category      string      `gorm:"index;not null" json:"category"` // category path, immutable
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	OriginalPrice float64     `json:"originalPrice"`
	Price         float64     `json:"price"`
	DealScore     int         `gorm:"default:0" json:"dealScore"` // always derived: len(upvoters) - len(downvoters)
	Upvoters      StringArray `gorm:"type:text" json:"upvoters"`
	Downvoters    StringArray `gorm:"type:text" json:"downvoters"`
	Status        DealStatus  `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	CoverPhoto    string      `gorm:"type:text" json:"coverPhoto"`
	DealURL       string      `gorm:"type:text" json:"dealUrl"`
	Photos        StringArray `gorm:"type:text" json:"photos"`
	Tags          StringArray `gorm:"type:text" json:"tags,omitempty"` // tag-category paths, optional
	Location      string      `gorm:"type:varchar(100)" json:"location,omitempty"`
	Views         int         `gorm:"default:0" json:"views"` // monotonically non-decreasing
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (Deal) TableName() string {
	return "deals"
}

// BeforeCreate assigns a time-ordered UUID before insert.
func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		d.ID = id.String()
	}
	return nil
}

// ApplyVote mutates the voter sets for userID and recomputes the score.
// Upvoters and downvoters stay disjoint: voting the opposite direction moves
// the user, repeating the same direction is a no-op, RETRACT removes the
// user from both sets. Returns false when nothing changed.
func (d *Deal) ApplyVote(userID string, direction VoteDirection) bool {
	changed := false

	switch direction {
	case VoteUp:
		if !d.Upvoters.Contains(userID) {
			d.Downvoters = d.Downvoters.Remove(userID)
			d.Upvoters = append(d.Upvoters, userID)
			changed = true
		}
	case VoteDown:
		if !d.Downvoters.Contains(userID) {
			d.Upvoters = d.Upvoters.Remove(userID)
			d.Downvoters = append(d.Downvoters, userID)
			changed = true
		}
	case VoteRetract:
		if d.Upvoters.Contains(userID) || d.Downvoters.Contains(userID) {
			d.Upvoters = d.Upvoters.Remove(userID)
			d.Downvoters = d.Downvoters.Remove(userID)
			changed = true
		}
	}

	d.DealScore = len(d.Upvoters) - len(d.Downvoters)
	return changed
}
