package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/paylist/internal/models"
	"github.com/fatflowers/paylist/internal/testutil"
	"github.com/fatflowers/paylist/pkg/types"
)

func TestGetPublicationStatistic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	pub := &models.Publication{ID: "0190c0de-0000-7000-8000-00000000a001", CreatorID: "creator-1"}
	otherPub := &models.Publication{ID: "0190c0de-0000-7000-8000-00000000a002", CreatorID: "creator-2"}
	monthly := &models.Plan{ID: "0190c0de-0000-7000-8000-00000000b001", PublicationID: pub.ID, PlanCode: "PLN_m", Interval: types.PlanIntervalMonthly, Currency: "NGN"}
	annual := &models.Plan{ID: "0190c0de-0000-7000-8000-00000000b002", PublicationID: pub.ID, PlanCode: "PLN_a", Interval: types.PlanIntervalAnnually, Currency: "NGN"}
	foreign := &models.Plan{ID: "0190c0de-0000-7000-8000-00000000b003", PublicationID: otherPub.ID, PlanCode: "PLN_x", Interval: types.PlanIntervalMonthly, Currency: "GHS"}
	for _, row := range []any{pub, otherPub, monthly, annual, foreign} {
		require.NoError(t, db.Create(row).Error)
	}

	day1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	subs := []*models.Subscriber{
		{ID: "0190c0de-0000-7000-8000-00000000c001", SubscriptionCode: "SUB_1", Email: "a@x.com", Status: types.SubscriberStatusActive, PlanID: monthly.ID, TotalRevenue: 500, CreatedAt: day1},
		{ID: "0190c0de-0000-7000-8000-00000000c002", SubscriptionCode: "SUB_2", Email: "b@x.com", Status: types.SubscriberStatusActive, PlanID: annual.ID, TotalRevenue: 5000, CreatedAt: day2},
		{ID: "0190c0de-0000-7000-8000-00000000c003", SubscriptionCode: "SUB_3", Email: "c@x.com", Status: types.SubscriberStatusCancelled, PlanID: monthly.ID, TotalRevenue: 1000, CreatedAt: day2},
		{ID: "0190c0de-0000-7000-8000-00000000c004", SubscriptionCode: "SUB_4", Email: "d@x.com", Status: types.SubscriberStatusActive, PlanID: foreign.ID, TotalRevenue: 9999, CreatedAt: day2},
	}
	require.NoError(t, db.Create(subs).Error)

	svc := New(db)
	resp, err := svc.GetPublicationStatistic(ctx, &PublicationStatisticRequest{PublicationID: pub.ID})
	require.NoError(t, err)
	require.Len(t, resp.DataItems, len(AllStatisticTypes))

	require.Equal(t, []StatisticResponseDataItem{
		{Label: "active", Value: 2},
		{Label: "cancelled", Value: 1},
	}, resp.DataItems[StatisticTypeStatusCount])
	require.Equal(t, []StatisticResponseDataItem{
		{Label: "PLN_a", Value: 1},
		{Label: "PLN_m", Value: 2},
	}, resp.DataItems[StatisticTypePlanSubscriberCount])
	require.Equal(t, []StatisticResponseDataItem{{Label: "NGN", Value: 6500}}, resp.DataItems[StatisticTypeTotalRevenue])
	require.Equal(t, []StatisticResponseDataItem{
		{Date: "2024-06-02", Value: 2},
		{Date: "2024-06-01", Value: 1},
	}, resp.DataItems[StatisticTypeDailyNewSubscriberCount])

	since := day2
	resp, err = svc.GetPublicationStatistic(ctx, &PublicationStatisticRequest{
		PublicationID: pub.ID,
		Since:         &since,
		DataItems:     []*StatisticDataItem{{ID: StatisticTypeDailyNewSubscriberCount}, {ID: StatisticTypeDailyNewSubscriberCount}},
	})
	require.NoError(t, err)
	require.Len(t, resp.DataItems, 1)
	require.Equal(t, []StatisticResponseDataItem{{Date: "2024-06-02", Value: 2}}, resp.DataItems[StatisticTypeDailyNewSubscriberCount])
}

func TestGetPublicationStatistic_InvalidItem(t *testing.T) {
	svc := New(testutil.SetupTestDB(t))
	_, err := svc.GetPublicationStatistic(context.Background(), &PublicationStatisticRequest{
		PublicationID: "0190c0de-0000-7000-8000-00000000a001",
		DataItems:     []*StatisticDataItem{{ID: "bogus"}},
	})
	require.Error(t, err)

	_, err = svc.GetPublicationStatistic(context.Background(), &PublicationStatisticRequest{})
	require.Error(t, err)
}
