// Package tagsync mirrors subscriber lifecycle state onto Kit tags.
//
// Sync is best effort: Apply never returns an error. Callers get an Outcome
// describing what happened and are expected to log it.
package tagsync

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paylist/internal/app/service/creator"
	"github.com/fatflowers/paylist/internal/platform/kit"
	cfgpkg "github.com/fatflowers/paylist/pkg/config"
	"github.com/fatflowers/paylist/pkg/metrics"
	"github.com/fatflowers/paylist/pkg/secretbox"
	"github.com/fatflowers/paylist/pkg/types"
)

// Client is the subset of the Kit API used for sync.
type Client interface {
	UpsertSubscriber(ctx context.Context, email, firstName string) (int64, error)
	AddTag(ctx context.Context, tagID, subscriberID int64) error
	RemoveTag(ctx context.Context, tagID, subscriberID int64) error
	Unsubscribe(ctx context.Context, subscriberID int64) error
}

// ClientFactory builds a Client for one creator's API key.
type ClientFactory func(apiKey string) (Client, error)

// KeyOpener opens sealed API keys.
type KeyOpener interface {
	Open(sealed string) (string, error)
}

type OutcomeStatus string

const (
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the result of one sync attempt.
type Outcome struct {
	Status OutcomeStatus
	// Reason explains a skip.
	Reason string
	// KitSubscriberID is the Kit id used, zero when none was resolved.
	KitSubscriberID int64
	// Linked is true when KitSubscriberID was obtained during this attempt.
	Linked bool
	// Steps are the calls that succeeded, in order.
	Steps []string
	Err   error
}

// LogFields renders the outcome as zap key/value pairs.
func (o Outcome) LogFields() []any {
	fields := []any{"outcome", o.Status, "steps", o.Steps}
	if o.Reason != "" {
		fields = append(fields, "reason", o.Reason)
	}
	if o.KitSubscriberID != 0 {
		fields = append(fields, "kit_subscriber_id", o.KitSubscriberID)
	}
	if o.Err != nil {
		fields = append(fields, "err", o.Err)
	}
	return fields
}

// Target identifies the subscriber being synced.
type Target struct {
	Creator         *creator.Info
	Email           string
	FirstName       string
	KitSubscriberID *int64
}

type Synchronizer struct {
	keys      KeyOpener
	newClient ClientFactory
	metrics   metrics.WebhookMetrics
	log       *zap.SugaredLogger
}

func NewSynchronizer(keys KeyOpener, newClient ClientFactory, m metrics.WebhookMetrics, log *zap.SugaredLogger) *Synchronizer {
	if m == nil {
		m = metrics.NoopWebhookMetrics{}
	}
	return &Synchronizer{keys: keys, newClient: newClient, metrics: m, log: log}
}

// Apply runs plan against Kit for target. The first failing call stops the attempt.
func (s *Synchronizer) Apply(ctx context.Context, target Target, plan Plan) Outcome {
	out := s.apply(ctx, target, plan)
	s.metrics.RecordTagSync(string(out.Status))
	return out
}

func (s *Synchronizer) apply(ctx context.Context, target Target, plan Plan) Outcome {
	if !target.Creator.KitConfigured() {
		return Outcome{Status: OutcomeSkipped, Reason: "kit not configured for publication"}
	}
	if s.keys == nil {
		return Outcome{Status: OutcomeSkipped, Reason: "encryption key not configured"}
	}
	removes := resolveTags(target.Creator, plan.Remove)
	adds := resolveTags(target.Creator, plan.Add)
	if len(removes) == 0 && len(adds) == 0 && !plan.Unsubscribe {
		return Outcome{Status: OutcomeSkipped, Reason: "no configured tags in plan"}
	}

	apiKey, err := s.keys.Open(*target.Creator.Publication.KitAPIKeySealed)
	if err != nil {
		return Outcome{Status: OutcomeFailed, Err: fmt.Errorf("open kit api key: %w", err)}
	}
	client, err := s.newClient(apiKey)
	if err != nil {
		return Outcome{Status: OutcomeFailed, Err: fmt.Errorf("build kit client: %w", err)}
	}

	out := Outcome{Status: OutcomeApplied}
	if target.KitSubscriberID != nil && *target.KitSubscriberID != 0 {
		out.KitSubscriberID = *target.KitSubscriberID
	} else {
		id, err := client.UpsertSubscriber(ctx, target.Email, target.FirstName)
		if err != nil {
			return out.fail(fmt.Errorf("upsert subscriber %s: %w", target.Email, err))
		}
		out.KitSubscriberID = id
		out.Linked = true
		out.Steps = append(out.Steps, "upsert_subscriber")
	}

	for _, tag := range removes {
		if err := client.RemoveTag(ctx, tag.id, out.KitSubscriberID); err != nil {
			return out.fail(fmt.Errorf("remove %s tag %d: %w", tag.role, tag.id, err))
		}
		out.Steps = append(out.Steps, "remove:"+string(tag.role))
	}
	for _, tag := range adds {
		if err := client.AddTag(ctx, tag.id, out.KitSubscriberID); err != nil {
			return out.fail(fmt.Errorf("add %s tag %d: %w", tag.role, tag.id, err))
		}
		out.Steps = append(out.Steps, "add:"+string(tag.role))
	}
	if plan.Unsubscribe {
		if err := client.Unsubscribe(ctx, out.KitSubscriberID); err != nil {
			return out.fail(fmt.Errorf("unsubscribe: %w", err))
		}
		out.Steps = append(out.Steps, "unsubscribe")
	}
	return out
}

func (o Outcome) fail(err error) Outcome {
	o.Status = OutcomeFailed
	o.Err = err
	return o
}

type roleTag struct {
	role types.TagRole
	id   int64
}

func resolveTags(info *creator.Info, roles []types.TagRole) []roleTag {
	tags := make([]roleTag, 0, len(roles))
	for _, role := range roles {
		if id, ok := info.TagSet.TagID(role); ok {
			tags = append(tags, roleTag{role: role, id: id})
		}
	}
	return tags
}

// NewKitClientFactory builds Kit clients sharing one http.Client.
func NewKitClientFactory(cfg *cfgpkg.Config, m metrics.WebhookMetrics) ClientFactory {
	hc := &http.Client{Timeout: cfg.Kit.Timeout}
	return func(apiKey string) (Client, error) {
		return kit.NewClient(kit.ClientOptions{
			BaseURL:    cfg.Kit.BaseURL,
			APIKey:     apiKey,
			HTTPClient: hc,
			Metrics:    m,
		})
	}
}

func newKeyOpener(box *secretbox.Box) KeyOpener {
	if box == nil {
		return nil
	}
	return box
}

var Module = fx.Options(
	fx.Provide(newKeyOpener, NewKitClientFactory, NewSynchronizer),
)
