package models

import (
	"time"

	"github.com/fatflowers/paylist/pkg/types"
)

// Plan is a creator's Paystack plan. Plans are created by the creator dashboard;
// the webhook pipeline only reads them.
type Plan struct {
	ID            string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PublicationID string             `gorm:"column:publication_id;type:uuid;not null;index" json:"publication_id"`
	PlanCode      string             `gorm:"column:plan_code;type:varchar(64);not null;uniqueIndex" json:"plan_code"`
	Name          string             `gorm:"column:name;type:varchar(255)" json:"name"`
	Interval      types.PlanInterval `gorm:"column:interval;type:varchar(32);not null" json:"interval"`
	// Amount is in currency subunits, as configured on Paystack.
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	Currency  string    `gorm:"column:currency;type:varchar(8)" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plan"
}
