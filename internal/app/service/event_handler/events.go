package event_handler

import (
	"context"
	"time"

	"github.com/fatflowers/paylist/pkg/types"
)

// Event is a classified webhook delivery. The set of implementations is closed:
// only this package can add one, and each dispatching event calls exactly one
// Lifecycle method, so a new event cannot compile without a handler.
type Event interface {
	Type() types.EventType
	SubscriptionCode() string
	dispatch(ctx context.Context, l Lifecycle) (*Result, error)
}

// Lifecycle handles every dispatching event.
type Lifecycle interface {
	SubscriptionCreated(ctx context.Context, ev *SubscriptionCreated) (*Result, error)
	InvoicePaid(ctx context.Context, ev *InvoicePaid) (*Result, error)
	InvoicePaymentFailed(ctx context.Context, ev *InvoicePaymentFailed) (*Result, error)
	SubscriptionNotRenewing(ctx context.Context, ev *SubscriptionNotRenewing) (*Result, error)
	SubscriptionDisabled(ctx context.Context, ev *SubscriptionDisabled) (*Result, error)
}

// Payment family.

type SubscriptionCreated struct {
	Code            string
	PlanCode        string
	Email           string
	FirstName       string
	LastName        string
	Amount          int64
	NextPaymentDate time.Time
}

type InvoicePaid struct {
	Code            string
	PlanCode        string
	InvoiceCode     string
	Amount          int64
	NextPaymentDate time.Time
}

type InvoicePaymentFailed struct {
	Code        string
	PlanCode    string
	InvoiceCode string
}

// Cancellation family.

type SubscriptionNotRenewing struct {
	Code     string
	PlanCode string
}

type SubscriptionDisabled struct {
	Code     string
	PlanCode string
	// Completed is true when the subscription ran its full course rather than being cancelled.
	Completed bool
}

// Acknowledged without dispatch.

// Incomplete is a known event missing fields its handler requires.
type Incomplete struct {
	EventType types.EventType
	Code      string
	Missing   []string
}

// Ignored is a known event that requires no change, such as an unpaid invoice update.
type Ignored struct {
	EventType types.EventType
	Code      string
	Reason    string
}

// Unrecognized is any event outside the handled set.
type Unrecognized struct {
	Name string
}

func (e *SubscriptionCreated) Type() types.EventType     { return types.EventSubscriptionCreate }
func (e *InvoicePaid) Type() types.EventType             { return types.EventInvoiceUpdate }
func (e *InvoicePaymentFailed) Type() types.EventType    { return types.EventInvoicePaymentFailed }
func (e *SubscriptionNotRenewing) Type() types.EventType { return types.EventSubscriptionNotRenew }
func (e *SubscriptionDisabled) Type() types.EventType    { return types.EventSubscriptionDisable }
func (e *Incomplete) Type() types.EventType              { return e.EventType }
func (e *Ignored) Type() types.EventType                 { return e.EventType }
func (e *Unrecognized) Type() types.EventType            { return types.EventType(e.Name) }

func (e *SubscriptionCreated) SubscriptionCode() string     { return e.Code }
func (e *InvoicePaid) SubscriptionCode() string             { return e.Code }
func (e *InvoicePaymentFailed) SubscriptionCode() string    { return e.Code }
func (e *SubscriptionNotRenewing) SubscriptionCode() string { return e.Code }
func (e *SubscriptionDisabled) SubscriptionCode() string    { return e.Code }
func (e *Incomplete) SubscriptionCode() string              { return e.Code }
func (e *Ignored) SubscriptionCode() string                 { return e.Code }
func (e *Unrecognized) SubscriptionCode() string            { return "" }

func (e *SubscriptionCreated) dispatch(ctx context.Context, l Lifecycle) (*Result, error) {
	return l.SubscriptionCreated(ctx, e)
}

func (e *InvoicePaid) dispatch(ctx context.Context, l Lifecycle) (*Result, error) {
	return l.InvoicePaid(ctx, e)
}

func (e *InvoicePaymentFailed) dispatch(ctx context.Context, l Lifecycle) (*Result, error) {
	return l.InvoicePaymentFailed(ctx, e)
}

func (e *SubscriptionNotRenewing) dispatch(ctx context.Context, l Lifecycle) (*Result, error) {
	return l.SubscriptionNotRenewing(ctx, e)
}

func (e *SubscriptionDisabled) dispatch(ctx context.Context, l Lifecycle) (*Result, error) {
	return l.SubscriptionDisabled(ctx, e)
}

func (e *Incomplete) dispatch(context.Context, Lifecycle) (*Result, error) {
	return ignored("missing required fields", "missing", e.Missing), nil
}

func (e *Ignored) dispatch(context.Context, Lifecycle) (*Result, error) {
	return ignored(e.Reason), nil
}

func (e *Unrecognized) dispatch(context.Context, Lifecycle) (*Result, error) {
	return ignored("unrecognized event"), nil
}
