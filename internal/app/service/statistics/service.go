package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/paylist/internal/models"
)

type StatisticType string

const (
	// Subscriber counts grouped by status, label is the status.
	StatisticTypeStatusCount StatisticType = "status_count"
	// Subscriber counts grouped by plan, label is the plan code.
	StatisticTypePlanSubscriberCount StatisticType = "plan_subscriber_count"
	// Accumulated revenue in major units, label is the currency.
	StatisticTypeTotalRevenue StatisticType = "total_revenue"
	// New subscribers per day.
	StatisticTypeDailyNewSubscriberCount StatisticType = "daily_new_subscriber_count"
)

var AllStatisticTypes = []StatisticType{
	StatisticTypeStatusCount,
	StatisticTypePlanSubscriberCount,
	StatisticTypeTotalRevenue,
	StatisticTypeDailyNewSubscriberCount,
}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type PublicationStatisticRequest struct {
	PublicationID string `json:"publication_id" binding:"required"`
	// Since bounds daily series; zero means all time.
	Since     *time.Time           `json:"since"`
	DataItems []*StatisticDataItem `json:"data_items"`
}

type StatisticResponseDataItem struct {
	Date  string `json:"date,omitempty"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type PublicationStatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

// subscribers scopes a query to the subscribers of one publication.
func (s *Service) subscribers(ctx context.Context, publicationID string) *gorm.DB {
	return s.db.WithContext(ctx).Table((models.Subscriber{}).TableName()).
		Joins("JOIN plan ON plan.id = subscriber.plan_id").
		Where("plan.publication_id = ?", publicationID)
}

func (s *Service) getStatusCount(ctx context.Context, req *PublicationStatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.subscribers(ctx, req.PublicationID).
		Select("subscriber.status as label, count(*) as value").
		Group("subscriber.status").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPlanSubscriberCount(ctx context.Context, req *PublicationStatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.subscribers(ctx, req.PublicationID).
		Select("plan.plan_code as label, count(*) as value").
		Group("plan.plan_code").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalRevenue(ctx context.Context, req *PublicationStatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.subscribers(ctx, req.PublicationID).
		Select("plan.currency as label, COALESCE(SUM(subscriber.total_revenue), 0) as value").
		Group("plan.currency").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyNewSubscriberCount(ctx context.Context, req *PublicationStatisticRequest) ([]StatisticResponseDataItem, error) {
	day := s.dayExpr("subscriber.created_at")
	var results []StatisticResponseDataItem
	q := s.subscribers(ctx, req.PublicationID).
		Select(day + " as date, count(*) as value")
	if req.Since != nil && !req.Since.IsZero() {
		q = q.Where("subscriber.created_at >= ?", req.Since.UTC())
	}
	q = q.Group(day).Order("date DESC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// dayExpr formats a timestamp column as YYYY-MM-DD in the connected dialect.
func (s *Service) dayExpr(column string) string {
	if s.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', " + column + ")"
	}
	return "TO_CHAR(" + column + ", 'YYYY-MM-DD')"
}

func (s *Service) getStatistic(ctx context.Context, req *PublicationStatisticRequest, id StatisticType) ([]StatisticResponseDataItem, error) {
	switch id {
	case StatisticTypeStatusCount:
		return s.getStatusCount(ctx, req)
	case StatisticTypePlanSubscriberCount:
		return s.getPlanSubscriberCount(ctx, req)
	case StatisticTypeTotalRevenue:
		return s.getTotalRevenue(ctx, req)
	case StatisticTypeDailyNewSubscriberCount:
		return s.getDailyNewSubscriberCount(ctx, req)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", id)
	}
}

// GetPublicationStatistic computes the requested data items in parallel.
// Every item is computed when DataItems is empty.
func (s *Service) GetPublicationStatistic(ctx context.Context, req *PublicationStatisticRequest) (*PublicationStatisticResponse, error) {
	if req == nil || req.PublicationID == "" {
		return nil, fmt.Errorf("publication_id is required")
	}
	ids := lo.Uniq(lo.FilterMap(req.DataItems, func(di *StatisticDataItem, _ int) (StatisticType, bool) {
		return lo.FromPtr(di).ID, di != nil
	}))
	if len(ids) == 0 {
		ids = AllStatisticTypes
	}

	var mu sync.Mutex
	results := make(map[StatisticType][]StatisticResponseDataItem, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			res, err := s.getStatistic(gctx, req, id)
			if err != nil {
				return fmt.Errorf("statistic %s: %w", id, err)
			}
			if res == nil {
				res = []StatisticResponseDataItem{}
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PublicationStatisticResponse{DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
