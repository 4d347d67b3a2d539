package event_handler

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/paylist/internal/platform/paystack"
	"github.com/fatflowers/paylist/pkg/types"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func createBody(t *testing.T, code, planCode string, amount int64) []byte {
	return mustJSON(t, map[string]any{
		"event": "subscription.create",
		"data": map[string]any{
			"subscription_code": code,
			"plan":              map[string]any{"plan_code": planCode},
			"next_payment_date": "2024-06-01",
			"amount":            amount,
			"customer":          map[string]any{"email": "a@x.com", "first_name": "A"},
		},
	})
}

func invoiceBody(t *testing.T, code, planCode, status string, amount int64, next string) []byte {
	return mustJSON(t, map[string]any{
		"event": "invoice.update",
		"data": map[string]any{
			"status":       status,
			"invoice_code": "INV_1",
			"amount":       amount,
			"plan":         map[string]any{"plan_code": planCode},
			"subscription": map[string]any{"subscription_code": code, "next_payment_date": next},
		},
	})
}

func cancelBody(t *testing.T, event, code, planCode, status string) []byte {
	return mustJSON(t, map[string]any{
		"event": event,
		"data": map[string]any{
			"subscription_code": code,
			"status":            status,
			"plan":              map[string]any{"plan_code": planCode},
		},
	})
}

func TestParse_SubscriptionCreate(t *testing.T) {
	ev, err := Parse(createBody(t, "SUB_1", "PLN_1", 50000))
	require.NoError(t, err)

	created, ok := ev.(*SubscriptionCreated)
	require.True(t, ok, "got %T", ev)
	require.Equal(t, "SUB_1", created.Code)
	require.Equal(t, "PLN_1", created.PlanCode)
	require.Equal(t, "a@x.com", created.Email)
	require.Equal(t, "A", created.FirstName)
	require.Equal(t, int64(500), created.Amount)
	require.True(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Equal(created.NextPaymentDate))
	require.Equal(t, types.EventFamilyPayment, ev.Type().Family())
}

func TestParse_AmountIsFlooredToMajorUnits(t *testing.T) {
	for subunits, want := range map[int64]int64{0: 0, 99: 0, 100: 1, 50099: 500, 123456: 1234} {
		ev, err := Parse(createBody(t, "SUB_1", "PLN_1", subunits))
		require.NoError(t, err)
		require.Equal(t, want, ev.(*SubscriptionCreated).Amount, "subunits %d", subunits)
	}
}

func TestParse_InvoiceUpdate(t *testing.T) {
	ev, err := Parse(invoiceBody(t, "SUB_1", "PLN_1", "success", 50000, "2024-07-01T00:00:00.000Z"))
	require.NoError(t, err)
	paid, ok := ev.(*InvoicePaid)
	require.True(t, ok, "got %T", ev)
	require.Equal(t, "SUB_1", paid.SubscriptionCode())
	require.Equal(t, int64(500), paid.Amount)
	require.Equal(t, "INV_1", paid.InvoiceCode)
	require.True(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).Equal(paid.NextPaymentDate))

	ev, err = Parse(invoiceBody(t, "SUB_1", "PLN_1", "failed", 50000, "2024-07-01"))
	require.NoError(t, err)
	ign, ok := ev.(*Ignored)
	require.True(t, ok, "got %T", ev)
	require.Equal(t, types.EventInvoiceUpdate, ign.Type())
	require.Equal(t, "SUB_1", ign.SubscriptionCode())
}

func TestParse_MissingFieldsAreIncomplete(t *testing.T) {
	body := mustJSON(t, map[string]any{
		"event": "subscription.create",
		"data": map[string]any{
			"subscription_code": "SUB_1",
			"plan":              map[string]any{"plan_code": "PLN_1"},
		},
	})
	ev, err := Parse(body)
	require.NoError(t, err)
	inc, ok := ev.(*Incomplete)
	require.True(t, ok, "got %T", ev)
	require.ElementsMatch(t, []string{"customer.email", "amount", "next_payment_date"}, inc.Missing)

	ev, err = Parse(invoiceBody(t, "SUB_1", "PLN_1", "success", 100, ""))
	require.NoError(t, err)
	inc, ok = ev.(*Incomplete)
	require.True(t, ok, "got %T", ev)
	require.Equal(t, []string{"subscription.next_payment_date"}, inc.Missing)

	ev, err = Parse(cancelBody(t, "subscription.not_renew", "", "PLN_1", "non-renewing"))
	require.NoError(t, err)
	require.IsType(t, &Incomplete{}, ev)
}

func TestParse_CancellationFamily(t *testing.T) {
	ev, err := Parse(cancelBody(t, "subscription.not_renew", "SUB_1", "PLN_1", "non-renewing"))
	require.NoError(t, err)
	require.IsType(t, &SubscriptionNotRenewing{}, ev)
	require.Equal(t, types.EventFamilyCancellation, ev.Type().Family())

	ev, err = Parse(cancelBody(t, "subscription.disable", "SUB_1", "PLN_1", "complete"))
	require.NoError(t, err)
	disabled, ok := ev.(*SubscriptionDisabled)
	require.True(t, ok, "got %T", ev)
	require.True(t, disabled.Completed)

	ev, err = Parse(cancelBody(t, "subscription.disable", "SUB_1", "PLN_1", "cancelled"))
	require.NoError(t, err)
	require.False(t, ev.(*SubscriptionDisabled).Completed)
}

func TestParse_UnrecognizedEvent(t *testing.T) {
	ev, err := Parse([]byte(`{"event":"charge.success","data":{"amount":100}}`))
	require.NoError(t, err)
	require.IsType(t, &Unrecognized{}, ev)
	require.Equal(t, types.EventFamilyUnknown, ev.Type().Family())
}

func TestParse_InvalidBody(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":       `{"event":`,
		"missing event":   `{"data":{}}`,
		"missing data":    `{"event":"subscription.create"}`,
		"negative amount": `{"event":"subscription.create","data":{"amount":-1}}`,
		"bad email":       `{"event":"subscription.create","data":{"customer":{"email":"nope"}}}`,
	} {
		_, err := Parse([]byte(body))
		require.Error(t, err, name)
		require.True(t, errors.Is(err, paystack.ErrInvalidPayload), name)
	}
}
