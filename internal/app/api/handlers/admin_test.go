package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/paylist/internal/app/service/creator"
	eh "github.com/fatflowers/paylist/internal/app/service/event_handler"
	eventlog "github.com/fatflowers/paylist/internal/app/service/event_log"
	"github.com/fatflowers/paylist/internal/app/service/statistics"
	"github.com/fatflowers/paylist/internal/app/service/subscriber"
	"github.com/fatflowers/paylist/internal/app/service/tagsync"
	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/internal/testutil"
	"github.com/fatflowers/paylist/pkg/response"
	"github.com/fatflowers/paylist/pkg/secretbox"
	"github.com/fatflowers/paylist/pkg/types"
)

const (
	testPublicationID = "0190c0de-0000-7000-8000-00000000a001"
	testPlanID        = "0190c0de-0000-7000-8000-00000000b001"
)

type envelope struct {
	Code response.APIResponseCode `json:"code"`
	Data json.RawMessage          `json:"data"`
}

type adminFixture struct {
	db     *gorm.DB
	deps   *AdminDeps
	router *gin.Engine
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)
	log := zap.NewNop().Sugar()

	require.NoError(t, db.Create(&models.Publication{ID: testPublicationID, CreatorID: "creator-1", Name: "Weekly Notes"}).Error)
	require.NoError(t, db.Create(&models.Plan{ID: testPlanID, PublicationID: testPublicationID, PlanCode: "PLN_1", Interval: types.PlanIntervalMonthly, Amount: 50000, Currency: "NGN"}).Error)

	store := subscriber.NewStore(db, log)
	events := eventlog.New(db, log)
	t.Cleanup(store.Wait)
	t.Cleanup(events.Wait)
	resolver := creator.NewResolver(db, log)
	box, err := secretbox.New(make([]byte, 32))
	require.NoError(t, err)

	deps := &AdminDeps{
		Subscribers: store,
		Creators:    resolver,
		Lifecycle:   eh.NewService(store, resolver, tagsync.NewSynchronizer(nil, nil, nil, log), log),
		Events:      events,
		Stats:       statistics.New(db),
		Box:         box,
		Log:         log,
	}
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), deps)
	return &adminFixture{db: db, deps: deps, router: r}
}

func (f *adminFixture) seedSubscriber(t *testing.T, code string, status types.SubscriberStatus) {
	t.Helper()
	next := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.deps.Subscribers.CreateIfAbsent(t.Context(), &models.Subscriber{
		SubscriptionCode: code,
		Email:            code + "@x.com",
		Status:           status,
		PlanID:           testPlanID,
		NextPaymentDate:  &next,
		TotalRevenue:     500,
	})
	require.NoError(t, err)
}

func (f *adminFixture) do(t *testing.T, method, path string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestApiListSubscribers(t *testing.T) {
	f := newAdminFixture(t)
	f.seedSubscriber(t, "SUB_1", types.SubscriberStatusActive)
	f.seedSubscriber(t, "SUB_2", types.SubscriberStatusCancelled)

	env := f.do(t, http.MethodPost, "/api/v1/admin/list_subscribers", map[string]any{
		"filters": []map[string]any{{"field": "status", "operator": "eq", "values": []any{"active"}}},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var res ListSubscribersResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, "SUB_1", res.Items[0].SubscriptionCode)

	env = f.do(t, http.MethodPost, "/api/v1/admin/list_subscribers", map[string]any{
		"filters": []map[string]any{{"field": "name; drop table subscriber", "operator": "eq", "values": []any{"x"}}},
	})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiGetSubscriber(t *testing.T) {
	f := newAdminFixture(t)
	f.seedSubscriber(t, "SUB_1", types.SubscriberStatusActive)
	f.deps.Subscribers.Wait()

	env := f.do(t, http.MethodGet, "/api/v1/admin/subscribers/SUB_1", nil)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var detail SubscriberDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Equal(t, "SUB_1", detail.Subscriber.SubscriptionCode)
	require.Equal(t, "PLN_1", detail.Plan.PlanCode)
	require.Len(t, detail.Logs, 1)
	require.Equal(t, types.SubscriberChangeReasonCreated, detail.Logs[0].Reason)

	env = f.do(t, http.MethodGet, "/api/v1/admin/subscribers/SUB_missing", nil)
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestApiResyncSubscriber(t *testing.T) {
	f := newAdminFixture(t)
	f.seedSubscriber(t, "SUB_1", types.SubscriberStatusActive)

	env := f.do(t, http.MethodPost, "/api/v1/admin/resync_subscriber", map[string]any{"subscription_code": "SUB_1"})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var res ResyncSubscriberResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, tagsync.OutcomeSkipped, res.Outcome)
	require.NotEmpty(t, res.Reason)

	env = f.do(t, http.MethodPost, "/api/v1/admin/resync_subscriber", map[string]any{"subscription_code": "SUB_missing"})
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)

	env = f.do(t, http.MethodPost, "/api/v1/admin/resync_subscriber", map[string]any{})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiSetKitIntegration(t *testing.T) {
	f := newAdminFixture(t)

	env := f.do(t, http.MethodPost, "/api/v1/admin/set_kit_integration", map[string]any{
		"publication_id": testPublicationID,
		"api_key":        "kit_live_secret",
		"tags":           map[string]any{"active": 11, "cancelled": 15, "monthly": 21},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	info, err := f.deps.Creators.ResolveByPlanID(t.Context(), testPlanID)
	require.NoError(t, err)
	require.True(t, info.KitConfigured())
	require.NotEqual(t, "kit_live_secret", *info.Publication.KitAPIKeySealed)
	opened, err := f.deps.Box.Open(*info.Publication.KitAPIKeySealed)
	require.NoError(t, err)
	require.Equal(t, "kit_live_secret", opened)
	require.Equal(t, lo.ToPtr(int64(21)), info.TagSet.Monthly)
	require.Nil(t, info.TagSet.Attention)

	env = f.do(t, http.MethodPost, "/api/v1/admin/set_kit_integration", map[string]any{
		"publication_id": "0190c0de-0000-7000-8000-0000000000ff",
		"api_key":        "kit_live_secret",
	})
	require.Equal(t, response.APIResponseCodeNotFound, env.Code)
}

func TestApiSetKitIntegration_WithoutEncryptionKey(t *testing.T) {
	f := newAdminFixture(t)
	f.deps.Box = nil

	env := f.do(t, http.MethodPost, "/api/v1/admin/set_kit_integration", map[string]any{
		"publication_id": testPublicationID,
		"api_key":        "kit_live_secret",
	})
	require.Equal(t, response.APIResponseCodeError, env.Code)
}

func TestApiListWebhookEvents(t *testing.T) {
	f := newAdminFixture(t)
	f.deps.Events.Save(t.Context(), &models.WebhookEventLog{
		Provider:         "paystack",
		EventType:        "invoice.update",
		SubscriptionCode: "SUB_1",
		ReceivedAt:       time.Now(),
		Data:             []byte(`{"event":"invoice.update"}`),
		Status:           models.WebhookEventLogStatusIgnored,
	})
	f.deps.Events.Wait()

	env := f.do(t, http.MethodPost, "/api/v1/admin/list_webhook_events", map[string]any{
		"filters": []map[string]any{{"field": "subscription_code", "operator": "eq", "values": []any{"SUB_1"}}},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var res eventlog.ScanResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, int64(1), res.Total)
	require.Equal(t, models.WebhookEventLogStatusIgnored, res.Items[0].Status)
}

func TestApiGetPublicationStatistic(t *testing.T) {
	f := newAdminFixture(t)
	f.seedSubscriber(t, "SUB_1", types.SubscriberStatusActive)

	env := f.do(t, http.MethodPost, "/api/v1/admin/get_publication_statistic", map[string]any{
		"publication_id": testPublicationID,
		"data_items":     []map[string]any{{"id": "total_revenue"}},
	})
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var res statistics.PublicationStatisticResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, []statistics.StatisticResponseDataItem{{Label: "NGN", Value: 500}}, res.DataItems[statistics.StatisticTypeTotalRevenue])

	env = f.do(t, http.MethodPost, "/api/v1/admin/get_publication_statistic", map[string]any{})
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}
