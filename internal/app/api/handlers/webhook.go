package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	eh "github.com/fatflowers/paylist/internal/app/service/event_handler"
	"github.com/fatflowers/paylist/internal/platform/paystack"
	"github.com/fatflowers/paylist/pkg/config"
	"github.com/fatflowers/paylist/pkg/logctx"
)

// DeliveryHandler processes verified webhook bodies.
type DeliveryHandler interface {
	Configured() bool
	HandleDelivery(ctx context.Context, body []byte, signature string) (*eh.Result, error)
}

// @Summary      Paystack Webhook
// @Description  Receives Paystack subscription and invoice events. The raw body is authenticated with the HMAC-SHA512 signature in x-paystack-signature. Responds with plain text; any non-2xx status makes Paystack retry.
// @Tags         Webhook
// @Accept       json
// @Produce      plain
// @Param        x-paystack-signature header string true "Hex HMAC-SHA512 of the raw body"
// @Param        payload body object true "Paystack event envelope"
// @Success      200  {string}  string "OK"
// @Failure      400  {string}  string
// @Failure      401  {string}  string
// @Failure      413  {string}  string
// @Failure      500  {string}  string
// @Failure      503  {string}  string
// @Router       /api/v1/webhook/paystack [post]
// ApiPaystackWebhook handles Paystack webhook deliveries
func ApiPaystackWebhook(h DeliveryHandler, cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	header := cfg.Paystack.SignatureHeader
	if header == "" {
		header = paystack.DefaultSignatureHeader
	}
	maxBody := cfg.Paystack.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 256 << 10
	}
	return func(c *gin.Context) {
		lg := logctx.FromGin(c, log)
		if !h.Configured() {
			c.String(http.StatusServiceUnavailable, "webhook not configured")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				lg.Warnw("webhook_paystack_body_too_large", "limit", tooLarge.Limit)
				c.String(http.StatusRequestEntityTooLarge, "payload too large")
				return
			}
			lg.Warnw("webhook_paystack_read_failed", "err", err)
			c.String(http.StatusBadRequest, "unreadable body")
			return
		}

		_, err = h.HandleDelivery(c.Request.Context(), body, c.GetHeader(header))
		switch {
		case err == nil:
			c.String(http.StatusOK, "OK")
		case errors.Is(err, eh.ErrNotConfigured):
			c.String(http.StatusServiceUnavailable, "webhook not configured")
		case errors.Is(err, paystack.ErrInvalidSignature):
			c.String(http.StatusUnauthorized, "invalid signature")
		case errors.Is(err, paystack.ErrInvalidPayload):
			c.String(http.StatusBadRequest, "invalid payload")
		default:
			c.String(http.StatusInternalServerError, "processing failed")
		}
	}
}

func RegisterWebhookRoutes(r gin.IRouter, h DeliveryHandler, cfg *config.Config, log *zap.SugaredLogger) {
	r.POST("/paystack", ApiPaystackWebhook(h, cfg, log))
}
