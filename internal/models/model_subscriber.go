package models

import (
	"time"

	"github.com/fatflowers/paylist/pkg/types"
)

// Subscriber is a paying subscriber of one creator plan, keyed by the Paystack
// subscription code. Rows are never deleted; cancellation is a status.
type Subscriber struct {
	ID               string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionCode string                 `gorm:"column:subscription_code;type:varchar(64);not null;uniqueIndex" json:"subscription_code"`
	Email            string                 `gorm:"column:email;type:varchar(255);not null;index:idx_subscriber_plan_email,priority:2" json:"email"`
	Name             string                 `gorm:"column:name;type:varchar(255)" json:"name"`
	Status           types.SubscriberStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	PlanID           string                 `gorm:"column:plan_id;type:uuid;not null;index:idx_subscriber_plan_email,priority:1" json:"plan_id"`
	// NextPaymentDate is nil once the subscription stops renewing or a charge fails.
	NextPaymentDate *time.Time `gorm:"column:next_payment_date" json:"next_payment_date"`
	// TotalRevenue is in major currency units and only ever grows.
	TotalRevenue    int64  `gorm:"column:total_revenue;not null" json:"total_revenue"`
	KitSubscriberID *int64 `gorm:"column:kit_subscriber_id" json:"kit_subscriber_id"`
	// Completed is set when a cancelled subscription ran its full course.
	Completed bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscriber) TableName() string {
	return "subscriber"
}
