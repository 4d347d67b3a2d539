package models

import "time"

// Publication belongs to a creator and owns plans and the Kit integration.
type Publication struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CreatorID string `gorm:"column:creator_id;type:varchar(64);not null;index" json:"creator_id"`
	Name      string `gorm:"column:name;type:varchar(255)" json:"name"`
	// KitAPIKeySealed is the creator's Kit API key sealed with secretbox. It is
	// only opened right before a Kit call.
	KitAPIKeySealed *string   `gorm:"column:kit_api_key_sealed;type:text" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Publication) TableName() string {
	return "publication"
}

func (p *Publication) HasKitIntegration() bool {
	return p != nil && p.KitAPIKeySealed != nil && *p.KitAPIKeySealed != ""
}
