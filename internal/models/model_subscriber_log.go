package models

import (
	"time"

	"github.com/fatflowers/paylist/pkg/types"
	"gorm.io/datatypes"
)

// SubscriberLog records every change to a subscriber row.
// Use case: troubleshooting and reconciling with Paystack.
type SubscriberLog struct {
	ID           string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriberID string                       `gorm:"column:subscriber_id;type:uuid;index:idx_subscriber_log_subscriber_id,priority:1;not null" json:"subscriber_id"`
	Reason       types.SubscriberChangeReason `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	TraceID      string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	// Before is nil for creations.
	Before    datatypes.JSONType[*Subscriber] `gorm:"column:before;type:jsonb" json:"before"`
	After     datatypes.JSONType[*Subscriber] `gorm:"column:after;type:jsonb" json:"after"`
	CreatedAt time.Time                       `json:"created_at"`
}

func (SubscriberLog) TableName() string {
	return "subscriber_log"
}
