package subscriber

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/pkg/logctx"
	"github.com/fatflowers/paylist/pkg/tool"
	"github.com/fatflowers/paylist/pkg/types"
)

// Mutation describes a single-row change to a subscriber.
type Mutation struct {
	Reason types.SubscriberChangeReason
	Status types.SubscriberStatus
	// NextPaymentDate is written when set. ClearNextPaymentDate writes NULL instead.
	NextPaymentDate      *time.Time
	ClearNextPaymentDate bool
	// Completed is only written when Status is cancelled.
	Completed bool
}

// Store persists subscribers with gorm. Every write appends a SubscriberLog row
// in the background.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	wg  sync.WaitGroup
}

func NewStore(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// FindBySubscriptionCode returns nil, nil when no row exists.
func (s *Store) FindBySubscriptionCode(ctx context.Context, code string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.db.WithContext(ctx).Where("subscription_code = ?", code).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscriber %s: %w", code, err)
	}
	return &sub, nil
}

// CreateIfAbsent inserts sub unless a row with the same subscription code exists.
// It reports whether a row was inserted.
func (s *Store) CreateIfAbsent(ctx context.Context, sub *models.Subscriber) (bool, error) {
	if sub.ID == "" {
		sub.ID = tool.GenerateUUIDV7()
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "subscription_code"}}, DoNothing: true}).
		Create(sub)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create subscriber %s: %w", sub.SubscriptionCode, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.writeLog(ctx, types.SubscriberChangeReasonCreated, nil, sub)
	return true, nil
}

// UpdateStatus applies m to the row of before and returns the updated snapshot.
func (s *Store) UpdateStatus(ctx context.Context, before *models.Subscriber, m Mutation) (*models.Subscriber, error) {
	return s.update(ctx, before, 0, m)
}

// IncrementRevenue adds amount to total_revenue and applies m in the same statement.
func (s *Store) IncrementRevenue(ctx context.Context, before *models.Subscriber, amount int64, m Mutation) (*models.Subscriber, error) {
	if amount < 0 {
		return nil, fmt.Errorf("revenue increment must not be negative: %d", amount)
	}
	return s.update(ctx, before, amount, m)
}

func (s *Store) update(ctx context.Context, before *models.Subscriber, amount int64, m Mutation) (*models.Subscriber, error) {
	if before == nil || before.ID == "" {
		return nil, errors.New("update requires a loaded subscriber")
	}
	now := time.Now().UTC()
	after := *before
	updates := map[string]any{"updated_at": now}
	after.UpdatedAt = now

	if m.Status != "" {
		updates["status"] = m.Status
		after.Status = m.Status
	}
	if m.Status == types.SubscriberStatusCancelled {
		updates["completed"] = m.Completed
		after.Completed = m.Completed
	}
	switch {
	case m.ClearNextPaymentDate:
		updates["next_payment_date"] = nil
		after.NextPaymentDate = nil
	case m.NextPaymentDate != nil:
		updates["next_payment_date"] = *m.NextPaymentDate
		after.NextPaymentDate = m.NextPaymentDate
	}
	if amount > 0 {
		updates["total_revenue"] = gorm.Expr("total_revenue + ?", amount)
		after.TotalRevenue += amount
	}

	res := s.db.WithContext(ctx).Model(&models.Subscriber{}).Where("id = ?", before.ID).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update subscriber %s: %w", before.SubscriptionCode, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update subscriber %s: %w", before.SubscriptionCode, gorm.ErrRecordNotFound)
	}
	s.writeLog(ctx, m.Reason, before, &after)
	return &after, nil
}

// SetKitSubscriberID links the row to its Kit subscriber.
func (s *Store) SetKitSubscriberID(ctx context.Context, before *models.Subscriber, kitID int64) error {
	res := s.db.WithContext(ctx).Model(&models.Subscriber{}).
		Where("id = ?", before.ID).
		Updates(map[string]any{"kit_subscriber_id": kitID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("failed to set kit subscriber id for %s: %w", before.SubscriptionCode, res.Error)
	}
	after := *before
	after.KitSubscriberID = &kitID
	s.writeLog(ctx, types.SubscriberChangeReasonKitLinked, before, &after)
	return nil
}

// Logs returns the change history of a subscriber, newest first.
func (s *Store) Logs(ctx context.Context, subscriberID string, limit int) ([]*models.SubscriberLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []*models.SubscriberLog
	if err := s.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriber logs: %w", err)
	}
	return rows, nil
}

// Wait blocks until pending change log writes finish.
func (s *Store) Wait() {
	s.wg.Wait()
}

// writeLog persists the change asynchronously; errors are logged but not returned.
func (s *Store) writeLog(ctx context.Context, reason types.SubscriberChangeReason, before, after *models.Subscriber) {
	entry := &models.SubscriberLog{
		ID:           tool.GenerateUUIDV7(),
		SubscriberID: after.ID,
		Reason:       reason,
		TraceID:      logctx.TraceID(ctx),
		Before:       datatypes.NewJSONType(before),
		After:        datatypes.NewJSONType(after),
	}
	lg := logctx.FromCtx(ctx, s.log)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.db.Create(entry).Error; err != nil {
			lg.Errorw("subscriber_log_save_failed", "subscriber_id", entry.SubscriberID, "reason", reason, "err", err)
		}
	}()
}

func registerStoreDrain(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s.Wait()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Invoke(registerStoreDrain),
)
