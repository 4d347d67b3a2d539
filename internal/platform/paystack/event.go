package paystack

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Envelope is the body of every Paystack webhook delivery.
type Envelope struct {
	Event string     `json:"event" validate:"required"`
	Data  *EventData `json:"data" validate:"required"`
}

// EventData is the union of the data fields used by subscription and invoice
// events. Which fields are present depends on the event.
type EventData struct {
	Domain           string        `json:"domain"`
	Status           string        `json:"status"`
	SubscriptionCode string        `json:"subscription_code"`
	EmailToken       string        `json:"email_token"`
	InvoiceCode      string        `json:"invoice_code"`
	Amount           *int64        `json:"amount" validate:"omitempty,min=0"`
	NextPaymentDate  *Time         `json:"next_payment_date"`
	Paid             *bool         `json:"paid"`
	PaidAt           *Time         `json:"paid_at"`
	Plan             *Plan         `json:"plan"`
	Customer         *Customer     `json:"customer"`
	Subscription     *Subscription `json:"subscription"`
}

type Plan struct {
	PlanCode string `json:"plan_code"`
	Name     string `json:"name"`
	Interval string `json:"interval"`
	Amount   *int64 `json:"amount" validate:"omitempty,min=0"`
	Currency string `json:"currency"`
}

type Customer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email" validate:"omitempty,email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// Subscription is the subscription block nested in invoice events.
type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	Status           string `json:"status"`
	EmailToken       string `json:"email_token"`
	Amount           *int64 `json:"amount" validate:"omitempty,min=0"`
	NextPaymentDate  *Time  `json:"next_payment_date"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeEnvelope decodes and validates a raw delivery body. Failures are
// returned as *ParseError.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	if len(body) == 0 {
		return nil, &ParseError{Reason: "empty body"}
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{Reason: "malformed json", Err: err}
	}
	if err := validate.Struct(&env); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ParseError{Reason: "invalid field " + verrs[0].Namespace(), Err: err}
		}
		return nil, &ParseError{Reason: "validation failed", Err: err}
	}
	return &env, nil
}

// PlanCode returns the plan code carried by the event, if any.
func (d *EventData) PlanCode() string {
	if d == nil || d.Plan == nil {
		return ""
	}
	return d.Plan.PlanCode
}

// CustomerEmail returns the customer email carried by the event, if any.
func (d *EventData) CustomerEmail() string {
	if d == nil || d.Customer == nil {
		return ""
	}
	return d.Customer.Email
}
