package creator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/pkg/tool"
)

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPublicationNotFound = errors.New("publication not found")
)

// Info is everything the webhook pipeline needs to know about the creator
// behind a plan.
type Info struct {
	Plan        *models.Plan
	Publication *models.Publication
	// TagSet is nil when the publication has no Kit tags configured.
	TagSet *models.KitTagSet
}

// KitConfigured reports whether tag sync can run for this creator.
func (i *Info) KitConfigured() bool {
	return i != nil && i.TagSet != nil && i.Publication.HasKitIntegration()
}

type Resolver struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewResolver(db *gorm.DB, log *zap.SugaredLogger) *Resolver {
	return &Resolver{db: db, log: log}
}

// ResolveByPlanCode loads plan, publication and tag set for a Paystack plan code.
func (r *Resolver) ResolveByPlanCode(ctx context.Context, planCode string) (*Info, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).Where("plan_code = ?", planCode).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planCode)
		}
		return nil, fmt.Errorf("failed to load plan %s: %w", planCode, err)
	}
	return r.resolve(ctx, &plan)
}

// ResolveByPlanID is used when the plan is known from a stored subscriber.
func (r *Resolver) ResolveByPlanID(ctx context.Context, planID string) (*Info, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrPlanNotFound, planID)
		}
		return nil, fmt.Errorf("failed to load plan %s: %w", planID, err)
	}
	return r.resolve(ctx, &plan)
}

func (r *Resolver) resolve(ctx context.Context, plan *models.Plan) (*Info, error) {
	var pub models.Publication
	if err := r.db.WithContext(ctx).Where("id = ?", plan.PublicationID).First(&pub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s (plan %s)", ErrPublicationNotFound, plan.PublicationID, plan.PlanCode)
		}
		return nil, fmt.Errorf("failed to load publication %s: %w", plan.PublicationID, err)
	}

	info := &Info{Plan: plan, Publication: &pub}
	var tags models.KitTagSet
	err := r.db.WithContext(ctx).Where("publication_id = ?", pub.ID).First(&tags).Error
	switch {
	case err == nil:
		info.TagSet = &tags
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load kit tag set for publication %s: %w", pub.ID, err)
	}
	return info, nil
}

// SetKitIntegration stores the sealed Kit API key and tag ids of a publication.
func (r *Resolver) SetKitIntegration(ctx context.Context, publicationID, sealedAPIKey string, tags *models.KitTagSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Publication{}).Where("id = ?", publicationID).Update("kit_api_key_sealed", sealedAPIKey)
		if res.Error != nil {
			return fmt.Errorf("failed to store kit api key: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrPublicationNotFound, publicationID)
		}
		if tags == nil {
			return nil
		}
		tags.PublicationID = publicationID
		if tags.ID == "" {
			tags.ID = tool.GenerateUUIDV7()
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "publication_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"active", "non_renewing", "attention", "completed", "cancelled", "publication",
				"hourly", "daily", "monthly", "annually", "updated_at",
			}),
		}).Create(tags).Error
		if err != nil {
			return fmt.Errorf("failed to store kit tag set: %w", err)
		}
		return nil
	})
}

var Module = fx.Options(
	fx.Provide(NewResolver),
)
