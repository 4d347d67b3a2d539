package types

// EventType is the Paystack webhook event name.
type EventType string

const (
	EventSubscriptionCreate   EventType = "subscription.create"
	EventSubscriptionDisable  EventType = "subscription.disable"
	EventSubscriptionNotRenew EventType = "subscription.not_renew"
	EventInvoiceUpdate        EventType = "invoice.update"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
)

// EventFamily groups event types by the lifecycle handlers they reach.
type EventFamily string

const (
	EventFamilyPayment      EventFamily = "payment"
	EventFamilyCancellation EventFamily = "cancellation"
	EventFamilyUnknown      EventFamily = "unknown"
)

func (e EventType) Family() EventFamily {
	switch e {
	case EventSubscriptionCreate, EventInvoiceUpdate, EventInvoicePaymentFailed:
		return EventFamilyPayment
	case EventSubscriptionDisable, EventSubscriptionNotRenew:
		return EventFamilyCancellation
	default:
		return EventFamilyUnknown
	}
}
