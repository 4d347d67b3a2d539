package event_handler

import (
	"strings"

	"github.com/fatflowers/paylist/internal/platform/paystack"
	"github.com/fatflowers/paylist/pkg/types"
)

const invoiceStatusSuccess = "success"

// disableStatusComplete marks a subscription that ended after its last scheduled charge.
const disableStatusComplete = "complete"

// Parse decodes a verified delivery body and classifies it. Amounts are
// converted to major units here and nowhere else.
func Parse(body []byte) (Event, error) {
	env, err := paystack.DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	return classify(types.EventType(env.Event), env.Data), nil
}

func classify(name types.EventType, d *paystack.EventData) Event {
	switch name {
	case types.EventSubscriptionCreate:
		return parseSubscriptionCreate(d)
	case types.EventInvoiceUpdate:
		return parseInvoiceUpdate(d)
	case types.EventInvoicePaymentFailed:
		return parseInvoicePaymentFailed(d)
	case types.EventSubscriptionNotRenew:
		return parseSubscriptionNotRenew(d)
	case types.EventSubscriptionDisable:
		return parseSubscriptionDisable(d)
	default:
		return &Unrecognized{Name: string(name)}
	}
}

// missing collects the names of absent required fields.
type missing []string

func (m *missing) str(name, v string) string {
	if strings.TrimSpace(v) == "" {
		*m = append(*m, name)
	}
	return v
}

func (m *missing) amount(name string, v *int64) int64 {
	if v == nil {
		*m = append(*m, name)
		return 0
	}
	return paystack.ToMajorUnits(*v)
}

func (m *missing) time(name string, v *paystack.Time) *paystack.Time {
	if v.Ptr() == nil {
		*m = append(*m, name)
	}
	return v
}

func parseSubscriptionCreate(d *paystack.EventData) Event {
	var miss missing
	ev := &SubscriptionCreated{
		Code:     miss.str("subscription_code", d.SubscriptionCode),
		PlanCode: miss.str("plan.plan_code", d.PlanCode()),
		Email:    miss.str("customer.email", d.CustomerEmail()),
		Amount:   miss.amount("amount", d.Amount),
	}
	if next := miss.time("next_payment_date", d.NextPaymentDate).Ptr(); next != nil {
		ev.NextPaymentDate = *next
	}
	if len(miss) > 0 {
		return &Incomplete{EventType: types.EventSubscriptionCreate, Code: d.SubscriptionCode, Missing: miss}
	}
	if d.Customer != nil {
		ev.FirstName = d.Customer.FirstName
		ev.LastName = d.Customer.LastName
	}
	return ev
}

func parseInvoiceUpdate(d *paystack.EventData) Event {
	code := subscriptionCode(d)
	if d.Status != invoiceStatusSuccess {
		return &Ignored{EventType: types.EventInvoiceUpdate, Code: code, Reason: "invoice status " + quoteOrEmpty(d.Status)}
	}
	var miss missing
	ev := &InvoicePaid{
		Code:        miss.str("subscription.subscription_code", code),
		PlanCode:    miss.str("plan.plan_code", d.PlanCode()),
		InvoiceCode: d.InvoiceCode,
		Amount:      miss.amount("amount", d.Amount),
	}
	var next *paystack.Time
	if d.Subscription != nil {
		next = d.Subscription.NextPaymentDate
	}
	if t := miss.time("subscription.next_payment_date", next).Ptr(); t != nil {
		ev.NextPaymentDate = *t
	}
	if len(miss) > 0 {
		return &Incomplete{EventType: types.EventInvoiceUpdate, Code: code, Missing: miss}
	}
	return ev
}

func parseInvoicePaymentFailed(d *paystack.EventData) Event {
	code := subscriptionCode(d)
	var miss missing
	ev := &InvoicePaymentFailed{
		Code:        miss.str("subscription.subscription_code", code),
		PlanCode:    miss.str("plan.plan_code", d.PlanCode()),
		InvoiceCode: d.InvoiceCode,
	}
	if len(miss) > 0 {
		return &Incomplete{EventType: types.EventInvoicePaymentFailed, Code: code, Missing: miss}
	}
	return ev
}

func parseSubscriptionNotRenew(d *paystack.EventData) Event {
	var miss missing
	ev := &SubscriptionNotRenewing{
		Code:     miss.str("subscription_code", d.SubscriptionCode),
		PlanCode: miss.str("plan.plan_code", d.PlanCode()),
	}
	if len(miss) > 0 {
		return &Incomplete{EventType: types.EventSubscriptionNotRenew, Code: d.SubscriptionCode, Missing: miss}
	}
	return ev
}

func parseSubscriptionDisable(d *paystack.EventData) Event {
	var miss missing
	ev := &SubscriptionDisabled{
		Code:      miss.str("subscription_code", d.SubscriptionCode),
		PlanCode:  miss.str("plan.plan_code", d.PlanCode()),
		Completed: d.Status == disableStatusComplete,
	}
	if len(miss) > 0 {
		return &Incomplete{EventType: types.EventSubscriptionDisable, Code: d.SubscriptionCode, Missing: miss}
	}
	return ev
}

// subscriptionCode reads the code from the nested subscription block of invoice events.
func subscriptionCode(d *paystack.EventData) string {
	if d.Subscription != nil && d.Subscription.SubscriptionCode != "" {
		return d.Subscription.SubscriptionCode
	}
	return ""
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "empty"
	}
	return `"` + s + `"`
}
