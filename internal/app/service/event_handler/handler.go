package event_handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/paylist/internal/app/service/dedup"
	eventlog "github.com/fatflowers/paylist/internal/app/service/event_log"
	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/internal/platform/paystack"
	"github.com/fatflowers/paylist/pkg/config"
	"github.com/fatflowers/paylist/pkg/logctx"
	"github.com/fatflowers/paylist/pkg/metrics"
	"github.com/fatflowers/paylist/pkg/types"
)

const providerPaystack = "paystack"

// EventRecorder persists webhook event log rows.
type EventRecorder interface {
	Save(ctx context.Context, entry *models.WebhookEventLog)
}

// Handler runs one Paystack delivery through verification, dedup, parsing and dispatch.
type Handler struct {
	verifier  *paystack.Verifier
	lifecycle Lifecycle
	guard     dedup.Guard
	events    EventRecorder
	metrics   metrics.WebhookMetrics
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewHandler(cfg *config.Config, lifecycle *Service, guard dedup.Guard, events *eventlog.Service, m metrics.WebhookMetrics, log *zap.SugaredLogger) *Handler {
	return newHandler(paystack.NewVerifier(cfg.Paystack.SecretKey), lifecycle, guard, events, m, log)
}

func newHandler(v *paystack.Verifier, lifecycle Lifecycle, guard dedup.Guard, events EventRecorder, m metrics.WebhookMetrics, log *zap.SugaredLogger) *Handler {
	if m == nil {
		m = metrics.NoopWebhookMetrics{}
	}
	return &Handler{
		verifier:  v,
		lifecycle: lifecycle,
		guard:     guard,
		events:    events,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Configured reports whether deliveries can be verified.
func (h *Handler) Configured() bool {
	return h.verifier.Configured()
}

// HandleDelivery processes a raw delivery body. A non-nil error means the
// delivery must not be acknowledged: ErrNotConfigured, paystack.ErrInvalidSignature
// and *paystack.ParseError are caller errors, anything else is a processing failure.
func (h *Handler) HandleDelivery(ctx context.Context, body []byte, signature string) (res *Result, resErr error) {
	lg := logctx.FromCtx(ctx, h.log)
	if !h.verifier.Configured() {
		lg.Errorw("webhook_paystack_not_configured")
		return nil, ErrNotConfigured
	}
	if !h.verifier.Verify(body, signature) {
		h.metrics.RecordWebhookError("auth_failed")
		lg.Warnw("webhook_paystack_invalid_signature", "has_signature", signature != "")
		return nil, paystack.ErrInvalidSignature
	}

	ev, err := Parse(body)
	if err != nil {
		h.metrics.RecordWebhookError("invalid_payload")
		lg.Warnw("webhook_paystack_invalid_payload", "err", err)
		return nil, err
	}
	eventLabel := metricLabel(ev.Type())
	lg = lg.With("event", ev.Type(), "subscription_code", ev.SubscriptionCode())

	key := strings.ToLower(signature)
	claimed, err := h.guard.Claim(ctx, key)
	if err != nil {
		// processed without a claim
		lg.Warnw("delivery_guard_unavailable", "err", err)
	} else if !claimed {
		lg.Infow("webhook_paystack_duplicate")
		h.save(ctx, ev, body, models.WebhookEventLogStatusDuplicate, nil)
		h.metrics.RecordWebhookEvent(eventLabel, string(DispositionDuplicate))
		return &Result{Disposition: DispositionDuplicate}, nil
	}

	receivedAt := h.now()
	h.save(ctx, ev, body, models.WebhookEventLogStatusReceived, nil)
	lg.Infow("webhook_paystack_received")

	defer func() {
		h.metrics.RecordWebhookProcessingDuration(eventLabel, h.now().Sub(receivedAt))
		if resErr != nil {
			h.metrics.RecordWebhookError("processing_error")
			h.metrics.RecordWebhookEvent(eventLabel, "error")
			h.save(ctx, ev, body, models.WebhookEventLogStatusHandleFailed, map[string]any{"error": resErr.Error()})
			lg.Errorw("webhook_paystack_handle_failed", "err", resErr)
			if claimed {
				if err := h.guard.Release(ctx, key); err != nil {
					lg.Warnw("delivery_guard_release_failed", "err", err)
				}
			}
			return
		}
		status := models.WebhookEventLogStatusHandled
		if res.Disposition == DispositionIgnored {
			status = models.WebhookEventLogStatusIgnored
		}
		h.save(ctx, ev, body, status, res.logRecord())
		h.metrics.RecordWebhookEvent(eventLabel, string(res.Disposition))
		lg.Infow("webhook_paystack_"+string(res.Disposition), "reason", res.Reason)
	}()

	return ev.dispatch(ctx, h.lifecycle)
}

func (h *Handler) save(ctx context.Context, ev Event, body []byte, status models.WebhookEventLogStatus, result map[string]any) {
	entry := &models.WebhookEventLog{
		Provider:         providerPaystack,
		EventType:        string(ev.Type()),
		SubscriptionCode: ev.SubscriptionCode(),
		TraceID:          logctx.TraceID(ctx),
		ReceivedAt:       h.now().UTC(),
		Data:             datatypes.JSON(body),
		Status:           status,
	}
	if result != nil {
		if b, err := json.Marshal(result); err == nil {
			j := datatypes.JSON(b)
			entry.Result = &j
		}
	}
	h.events.Save(ctx, entry)
}

// metricLabel keeps arbitrary event names out of metric labels.
func metricLabel(t types.EventType) string {
	if t.Family() == types.EventFamilyUnknown {
		return "unrecognized"
	}
	return string(t)
}

var Module = fx.Options(
	fx.Provide(NewService, NewHandler),
)
