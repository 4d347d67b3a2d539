package models

import (
	"time"

	"github.com/fatflowers/paylist/pkg/types"
)

// KitTagSet maps tag roles to Kit tag ids for one publication. Unset ids are
// skipped during sync.
type KitTagSet struct {
	ID            string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PublicationID string    `gorm:"column:publication_id;type:uuid;not null;uniqueIndex" json:"publication_id"`
	Active        *int64    `gorm:"column:active" json:"active"`
	NonRenewing   *int64    `gorm:"column:non_renewing" json:"non_renewing"`
	Attention     *int64    `gorm:"column:attention" json:"attention"`
	Completed     *int64    `gorm:"column:completed" json:"completed"`
	Cancelled     *int64    `gorm:"column:cancelled" json:"cancelled"`
	Publication   *int64    `gorm:"column:publication" json:"publication"`
	Hourly        *int64    `gorm:"column:hourly" json:"hourly"`
	Daily         *int64    `gorm:"column:daily" json:"daily"`
	Monthly       *int64    `gorm:"column:monthly" json:"monthly"`
	Annually      *int64    `gorm:"column:annually" json:"annually"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (KitTagSet) TableName() string {
	return "kit_tag_set"
}

// TagID returns the Kit tag id configured for role.
func (t *KitTagSet) TagID(role types.TagRole) (int64, bool) {
	if t == nil {
		return 0, false
	}
	var id *int64
	switch role {
	case types.TagRoleActive:
		id = t.Active
	case types.TagRoleNonRenewing:
		id = t.NonRenewing
	case types.TagRoleAttention:
		id = t.Attention
	case types.TagRoleCompleted:
		id = t.Completed
	case types.TagRoleCancelled:
		id = t.Cancelled
	case types.TagRolePublication:
		id = t.Publication
	case types.TagRoleHourly:
		id = t.Hourly
	case types.TagRoleDaily:
		id = t.Daily
	case types.TagRoleMonthly:
		id = t.Monthly
	case types.TagRoleAnnually:
		id = t.Annually
	}
	if id == nil {
		return 0, false
	}
	return *id, true
}
