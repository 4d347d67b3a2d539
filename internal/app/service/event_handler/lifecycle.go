package event_handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fatflowers/paylist/internal/app/service/creator"
	"github.com/fatflowers/paylist/internal/app/service/subscriber"
	"github.com/fatflowers/paylist/internal/app/service/tagsync"
	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/pkg/logctx"
	"github.com/fatflowers/paylist/pkg/types"
)

type SubscriberStore interface {
	FindBySubscriptionCode(ctx context.Context, code string) (*models.Subscriber, error)
	CreateIfAbsent(ctx context.Context, sub *models.Subscriber) (bool, error)
	UpdateStatus(ctx context.Context, before *models.Subscriber, m subscriber.Mutation) (*models.Subscriber, error)
	IncrementRevenue(ctx context.Context, before *models.Subscriber, amount int64, m subscriber.Mutation) (*models.Subscriber, error)
	SetKitSubscriberID(ctx context.Context, before *models.Subscriber, kitID int64) error
}

type CreatorResolver interface {
	ResolveByPlanCode(ctx context.Context, planCode string) (*creator.Info, error)
	ResolveByPlanID(ctx context.Context, planID string) (*creator.Info, error)
}

type TagSyncer interface {
	Apply(ctx context.Context, target tagsync.Target, plan tagsync.Plan) tagsync.Outcome
}

// Service applies lifecycle events to the subscriber store and mirrors the
// result onto Kit. Store failures are returned; sync failures are only logged.
type Service struct {
	subscribers SubscriberStore
	creators    CreatorResolver
	syncer      TagSyncer
	log         *zap.SugaredLogger
}

var _ Lifecycle = (*Service)(nil)

func NewService(subscribers *subscriber.Store, creators *creator.Resolver, syncer *tagsync.Synchronizer, log *zap.SugaredLogger) *Service {
	return newService(subscribers, creators, syncer, log)
}

func newService(subscribers SubscriberStore, creators CreatorResolver, syncer TagSyncer, log *zap.SugaredLogger) *Service {
	return &Service{subscribers: subscribers, creators: creators, syncer: syncer, log: log}
}

func (s *Service) SubscriptionCreated(ctx context.Context, ev *SubscriptionCreated) (*Result, error) {
	info, err := s.resolvePlan(ctx, ev.PlanCode)
	if err != nil {
		return nil, err
	}

	next := ev.NextPaymentDate
	sub := &models.Subscriber{
		SubscriptionCode: ev.Code,
		Email:            ev.Email,
		Name:             strings.TrimSpace(ev.FirstName + " " + ev.LastName),
		Status:           types.SubscriberStatusActive,
		PlanID:           info.Plan.ID,
		NextPaymentDate:  &next,
		TotalRevenue:     ev.Amount,
	}
	created, err := s.subscribers.CreateIfAbsent(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !created {
		existing, err := s.subscribers.FindBySubscriptionCode(ctx, ev.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if err := checkPlan(existing, info); err != nil {
				return nil, err
			}
		}
		return ignored("subscriber already exists"), nil
	}

	res := handled()
	res.TagSync = s.syncTags(ctx, info, sub, ev.FirstName, tagsync.ForCreate(info.Plan.Interval))
	return res, nil
}

func (s *Service) InvoicePaid(ctx context.Context, ev *InvoicePaid) (*Result, error) {
	info, before, err := s.load(ctx, ev.PlanCode, ev.Code)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, fmt.Errorf("%w: %s", ErrSubscriberNotFound, ev.Code)
	}

	m := subscriber.Mutation{Reason: types.SubscriberChangeReasonRenewed}
	allowed := before.Status.CanTransitionTo(types.SubscriberStatusActive)
	if allowed {
		next := ev.NextPaymentDate
		m.Status = types.SubscriberStatusActive
		m.NextPaymentDate = &next
	} else {
		s.rejectTransition(ctx, ev, before.Status, types.SubscriberStatusActive)
	}

	after, err := s.subscribers.IncrementRevenue(ctx, before, ev.Amount, m)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return &Result{Disposition: DispositionHandled, Reason: "revenue recorded, transition rejected"}, nil
	}
	res := handled()
	res.TagSync = s.syncTags(ctx, info, after, firstName(after.Name), tagsync.ForStatusChange(before.Status, after.Status))
	return res, nil
}

func (s *Service) InvoicePaymentFailed(ctx context.Context, ev *InvoicePaymentFailed) (*Result, error) {
	info, before, err := s.load(ctx, ev.PlanCode, ev.Code)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, fmt.Errorf("%w: %s", ErrSubscriberNotFound, ev.Code)
	}
	return s.changeStatus(ctx, ev, info, before, subscriber.Mutation{
		Reason:               types.SubscriberChangeReasonPaymentFailed,
		Status:               types.SubscriberStatusAttention,
		ClearNextPaymentDate: true,
	})
}

func (s *Service) SubscriptionNotRenewing(ctx context.Context, ev *SubscriptionNotRenewing) (*Result, error) {
	info, before, err := s.load(ctx, ev.PlanCode, ev.Code)
	if err != nil {
		return nil, err
	}
	if before == nil {
		logctx.FromCtx(ctx, s.log).Warnw("subscriber_not_found", "event", ev.Type(), "subscription_code", ev.Code)
		return ignored("subscriber not found"), nil
	}
	return s.changeStatus(ctx, ev, info, before, subscriber.Mutation{
		Reason:               types.SubscriberChangeReasonNotRenewing,
		Status:               types.SubscriberStatusNonRenewing,
		ClearNextPaymentDate: true,
	})
}

func (s *Service) SubscriptionDisabled(ctx context.Context, ev *SubscriptionDisabled) (*Result, error) {
	info, before, err := s.load(ctx, ev.PlanCode, ev.Code)
	if err != nil {
		return nil, err
	}
	if before == nil {
		logctx.FromCtx(ctx, s.log).Warnw("subscriber_not_found", "event", ev.Type(), "subscription_code", ev.Code)
		return ignored("subscriber not found"), nil
	}
	if before.Status == types.SubscriberStatusCancelled {
		return ignored("already cancelled"), nil
	}

	after, err := s.subscribers.UpdateStatus(ctx, before, subscriber.Mutation{
		Reason:               types.SubscriberChangeReasonDisabled,
		Status:               types.SubscriberStatusCancelled,
		ClearNextPaymentDate: true,
		Completed:            ev.Completed,
	})
	if err != nil {
		return nil, err
	}
	res := handled()
	res.TagSync = s.syncTags(ctx, info, after, firstName(after.Name), tagsync.ForDisable(ev.Completed))
	return res, nil
}

// Resync rebuilds the Kit tags of a subscriber from its stored status.
func (s *Service) Resync(ctx context.Context, code string) (*tagsync.Outcome, error) {
	sub, err := s.subscribers.FindBySubscriptionCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", ErrSubscriberNotFound, code)
	}
	info, err := s.creators.ResolveByPlanID(ctx, sub.PlanID)
	if err != nil {
		if errors.Is(err, creator.ErrPlanNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownPlan, err)
		}
		return nil, err
	}
	out := s.syncTags(ctx, info, sub, firstName(sub.Name), tagsync.ForResync(sub.Status, info.Plan.Interval, sub.Completed))
	if out == nil {
		return &tagsync.Outcome{Status: tagsync.OutcomeSkipped, Reason: "empty plan"}, nil
	}
	return out, nil
}

// changeStatus moves before to m.Status when the transition is allowed and swaps the status tags.
func (s *Service) changeStatus(ctx context.Context, ev Event, info *creator.Info, before *models.Subscriber, m subscriber.Mutation) (*Result, error) {
	if !before.Status.CanTransitionTo(m.Status) {
		s.rejectTransition(ctx, ev, before.Status, m.Status)
		return ignored("transition rejected", "from", before.Status, "to", m.Status), nil
	}
	after, err := s.subscribers.UpdateStatus(ctx, before, m)
	if err != nil {
		return nil, err
	}
	res := handled()
	res.TagSync = s.syncTags(ctx, info, after, firstName(after.Name), tagsync.ForStatusChange(before.Status, after.Status))
	return res, nil
}

// load resolves the plan and finds the subscriber. The subscriber is nil when absent.
func (s *Service) load(ctx context.Context, planCode, code string) (*creator.Info, *models.Subscriber, error) {
	info, err := s.resolvePlan(ctx, planCode)
	if err != nil {
		return nil, nil, err
	}
	sub, err := s.subscribers.FindBySubscriptionCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if sub != nil {
		if err := checkPlan(sub, info); err != nil {
			return nil, nil, err
		}
	}
	return info, sub, nil
}

func (s *Service) resolvePlan(ctx context.Context, planCode string) (*creator.Info, error) {
	info, err := s.creators.ResolveByPlanCode(ctx, planCode)
	if err != nil {
		if errors.Is(err, creator.ErrPlanNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownPlan, err)
		}
		return nil, err
	}
	return info, nil
}

func checkPlan(sub *models.Subscriber, info *creator.Info) error {
	if sub.PlanID != info.Plan.ID {
		return fmt.Errorf("%w: %s has plan %s, event plan %s (%s)",
			ErrPlanMismatch, sub.SubscriptionCode, sub.PlanID, info.Plan.ID, info.Plan.PlanCode)
	}
	return nil
}

func (s *Service) rejectTransition(ctx context.Context, ev Event, from, to types.SubscriberStatus) {
	logctx.FromCtx(ctx, s.log).Warnw("transition_rejected",
		"event", ev.Type(), "subscription_code", ev.SubscriptionCode(), "from", from, "to", to)
}

// syncTags applies plan and links the Kit subscriber id on first contact.
// It returns nil when the plan has nothing to do.
func (s *Service) syncTags(ctx context.Context, info *creator.Info, sub *models.Subscriber, first string, plan tagsync.Plan) *tagsync.Outcome {
	if plan.Empty() {
		return nil
	}
	lg := logctx.FromCtx(ctx, s.log).With("subscription_code", sub.SubscriptionCode)
	out := s.syncer.Apply(ctx, tagsync.Target{
		Creator:         info,
		Email:           sub.Email,
		FirstName:       first,
		KitSubscriberID: sub.KitSubscriberID,
	}, plan)

	if out.Status == tagsync.OutcomeFailed {
		lg.Warnw("tag_sync_failed", out.LogFields()...)
	} else {
		lg.Infow("tag_sync", out.LogFields()...)
	}
	if out.Linked && out.KitSubscriberID != 0 {
		if err := s.subscribers.SetKitSubscriberID(ctx, sub, out.KitSubscriberID); err != nil {
			lg.Errorw("kit_subscriber_link_failed", "kit_subscriber_id", out.KitSubscriberID, "err", err)
		}
	}
	return &out
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return ""
}
