package types

// SubscriberStatus is the lifecycle state of a paid subscriber.
type SubscriberStatus string

const (
	SubscriberStatusActive      SubscriberStatus = "active"
	SubscriberStatusNonRenewing SubscriberStatus = "non-renewing"
	SubscriberStatusAttention   SubscriberStatus = "attention"
	SubscriberStatusCancelled   SubscriberStatus = "cancelled"
)

var subscriberTransitions = map[SubscriberStatus][]SubscriberStatus{
	SubscriberStatusActive: {
		SubscriberStatusActive, SubscriberStatusNonRenewing, SubscriberStatusAttention, SubscriberStatusCancelled,
	},
	SubscriberStatusAttention: {
		SubscriberStatusAttention, SubscriberStatusActive, SubscriberStatusNonRenewing, SubscriberStatusCancelled,
	},
	SubscriberStatusNonRenewing: {
		SubscriberStatusNonRenewing, SubscriberStatusCancelled,
	},
	SubscriberStatusCancelled: {
		SubscriberStatusCancelled,
	},
}

func (s SubscriberStatus) Valid() bool {
	_, ok := subscriberTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Self transitions are allowed so replayed deliveries stay harmless.
func (s SubscriberStatus) CanTransitionTo(next SubscriberStatus) bool {
	for _, allowed := range subscriberTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SubscriberChangeReason records what caused a subscriber row to change.
type SubscriberChangeReason string

const (
	SubscriberChangeReasonCreated       SubscriberChangeReason = "subscription.create"
	SubscriberChangeReasonRenewed       SubscriberChangeReason = "invoice.update"
	SubscriberChangeReasonPaymentFailed SubscriberChangeReason = "invoice.payment_failed"
	SubscriberChangeReasonNotRenewing   SubscriberChangeReason = "subscription.not_renew"
	SubscriberChangeReasonDisabled      SubscriberChangeReason = "subscription.disable"
	SubscriberChangeReasonKitLinked     SubscriberChangeReason = "kit.linked"
)
