package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	mw "github.com/fatflowers/paylist/internal/app/api/middleware"
	"github.com/fatflowers/paylist/internal/app/service/creator"
	eh "github.com/fatflowers/paylist/internal/app/service/event_handler"
	eventlog "github.com/fatflowers/paylist/internal/app/service/event_log"
	"github.com/fatflowers/paylist/internal/app/service/statistics"
	"github.com/fatflowers/paylist/internal/app/service/subscriber"
	"github.com/fatflowers/paylist/internal/app/service/tagsync"
	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/pkg/logctx"
	"github.com/fatflowers/paylist/pkg/response"
	"github.com/fatflowers/paylist/pkg/secretbox"
	"github.com/fatflowers/paylist/pkg/types"
)

// AdminDeps groups the services behind the admin APIs.
type AdminDeps struct {
	fx.In

	Subscribers *subscriber.Store
	Creators    *creator.Resolver
	Lifecycle   *eh.Service
	Events      *eventlog.Service
	Stats       *statistics.Service
	// Box is nil when no encryption key is configured.
	Box *secretbox.Box
	Log *zap.SugaredLogger
}

type ListSubscribersResponse struct {
	Items []*models.Subscriber `json:"items"`
	Total int64                `json:"total"`
}

// @Summary      List Subscribers (Admin)
// @Description  Retrieves a paginated and filterable list of subscribers.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListSubscribers
// @Router       /api/v1/admin/list_subscribers [post]
func ApiListSubscribers(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := d.Subscribers.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListSubscribersResponse{Items: res.Items, Total: res.Total}))
	}
}

type SubscriberDetail struct {
	Subscriber *models.Subscriber      `json:"subscriber"`
	Plan       *models.Plan            `json:"plan"`
	Logs       []*models.SubscriberLog `json:"logs"`
}

// @Summary      Get Subscriber (Admin)
// @Description  Returns a subscriber with its plan and recent change log.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Paystack subscription code"
// @Success      200  {object}  handlers.RespSubscriberDetail
// @Router       /api/v1/admin/subscribers/{code} [get]
func ApiGetSubscriber(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sub, err := d.Subscribers.FindBySubscriptionCode(ctx, c.Param("code"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if sub == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, nil))
			return
		}
		detail := &SubscriberDetail{Subscriber: sub}
		if info, err := d.Creators.ResolveByPlanID(ctx, sub.PlanID); err == nil {
			detail.Plan = info.Plan
		} else {
			logctx.FromGin(c, d.Log).Warnw("subscriber_plan_unresolved", "plan_id", sub.PlanID, "err", err)
		}
		logs, err := d.Subscribers.Logs(ctx, sub.ID, 50)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		detail.Logs = logs
		c.JSON(http.StatusOK, response.OKT(detail))
	}
}

type ResyncSubscriberRequest struct {
	SubscriptionCode string `json:"subscription_code" binding:"required"`
}

type ResyncSubscriberResponse struct {
	Outcome         tagsync.OutcomeStatus `json:"outcome"`
	Reason          string                `json:"reason,omitempty"`
	KitSubscriberID int64                 `json:"kit_subscriber_id,omitempty"`
	Steps           []string              `json:"steps"`
	Error           string                `json:"error,omitempty"`
}

// @Summary      Resync Subscriber Tags (Admin)
// @Description  Rebuilds the Kit tags of a subscriber from its stored status.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.ResyncSubscriberRequest true "Subscriber to resync"
// @Success      200  {object}  handlers.RespResyncSubscriber
// @Router       /api/v1/admin/resync_subscriber [post]
func ApiResyncSubscriber(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResyncSubscriberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		out, err := d.Lifecycle.Resync(c.Request.Context(), req.SubscriptionCode)
		if errors.Is(err, eh.ErrSubscriberNotFound) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		res := &ResyncSubscriberResponse{
			Outcome:         out.Status,
			Reason:          out.Reason,
			KitSubscriberID: out.KitSubscriberID,
			Steps:           lo.Ternary(out.Steps == nil, []string{}, out.Steps),
		}
		if out.Err != nil {
			res.Error = out.Err.Error()
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Webhook Events (Admin)
// @Description  Retrieves a paginated and filterable list of received webhook deliveries.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListWebhookEvents
// @Router       /api/v1/admin/list_webhook_events [post]
func ApiListWebhookEvents(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := d.Events.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// KitTags holds the Kit tag id for each role. Omitted roles are not synced.
type KitTags struct {
	Active      *int64 `json:"active"`
	NonRenewing *int64 `json:"non_renewing"`
	Attention   *int64 `json:"attention"`
	Completed   *int64 `json:"completed"`
	Cancelled   *int64 `json:"cancelled"`
	Publication *int64 `json:"publication"`
	Hourly      *int64 `json:"hourly"`
	Daily       *int64 `json:"daily"`
	Monthly     *int64 `json:"monthly"`
	Annually    *int64 `json:"annually"`
}

func (t *KitTags) model() *models.KitTagSet {
	if t == nil {
		return nil
	}
	return &models.KitTagSet{
		Active:      t.Active,
		NonRenewing: t.NonRenewing,
		Attention:   t.Attention,
		Completed:   t.Completed,
		Cancelled:   t.Cancelled,
		Publication: t.Publication,
		Hourly:      t.Hourly,
		Daily:       t.Daily,
		Monthly:     t.Monthly,
		Annually:    t.Annually,
	}
}

type SetKitIntegrationRequest struct {
	PublicationID string   `json:"publication_id" binding:"required"`
	APIKey        string   `json:"api_key" binding:"required"`
	Tags          *KitTags `json:"tags"`
}

// @Summary      Set Kit Integration (Admin)
// @Description  Seals and stores a publication's Kit API key together with its tag ids.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.SetKitIntegrationRequest true "Kit credentials and tags"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/set_kit_integration [post]
func ApiSetKitIntegration(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetKitIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if d.Box == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "secrets.encryption_key is not configured"))
			return
		}
		sealed, err := d.Box.Seal(req.APIKey)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		err = d.Creators.SetKitIntegration(c.Request.Context(), req.PublicationID, sealed, req.Tags.model())
		if errors.Is(err, creator.ErrPublicationNotFound) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		logctx.FromGin(c, d.Log).Infow("kit_integration_updated",
			"publication_id", req.PublicationID, "admin", c.GetString(mw.AdminSubjectKey))
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Get Publication Statistics (Admin)
// @Description  Subscriber counts, revenue and daily sign-ups for one publication.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.PublicationStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPublicationStatistic
// @Router       /api/v1/admin/get_publication_statistic [post]
func ApiGetPublicationStatistic(d *AdminDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PublicationStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := d.Stats.GetPublicationStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, d *AdminDeps) {
	r.POST("/list_subscribers", ApiListSubscribers(d))
	r.GET("/subscribers/:code", ApiGetSubscriber(d))
	r.POST("/resync_subscriber", ApiResyncSubscriber(d))
	r.POST("/list_webhook_events", ApiListWebhookEvents(d))
	r.POST("/set_kit_integration", ApiSetKitIntegration(d))
	r.POST("/get_publication_statistic", ApiGetPublicationStatistic(d))
}
