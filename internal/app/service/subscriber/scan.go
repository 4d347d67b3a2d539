package subscriber

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/pkg/types"
)

// ScanFields are the columns admin listings may filter and sort on.
var ScanFields = []string{
	"subscription_code", "email", "status", "plan_id", "next_payment_date", "total_revenue", "created_at", "updated_at",
}

type ScanResponse struct {
	Items []*models.Subscriber `json:"items"`
	Total int64                `json:"total"`
}

// Scan implements paginated admin listing with filters.
func (s *Store) Scan(ctx context.Context, req *types.ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := req.Normalize(ScanFields...); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscriber{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	var rows []*models.Subscriber
	q := tx.Session(&gorm.Session{}).Order(req.OrderBy("created_at")).Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
