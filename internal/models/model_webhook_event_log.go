package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusIgnored      WebhookEventLogStatus = "ignored"
	WebhookEventLogStatusDuplicate    WebhookEventLogStatus = "duplicate"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog records each inbound Paystack delivery and how it was handled.
type WebhookEventLog struct {
	ID               string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Provider         string                `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	EventType        string                `gorm:"column:event_type;type:varchar(64);index" json:"event_type"`
	SubscriptionCode string                `gorm:"column:subscription_code;type:varchar(64);index" json:"subscription_code"`
	TraceID          string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	ReceivedAt       time.Time             `gorm:"column:received_at" json:"received_at"`
	Data             datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Result           *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status           WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string { return "webhook_event_log" }
