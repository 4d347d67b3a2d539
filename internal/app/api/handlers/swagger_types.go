package handlers

import (
	eventlog "github.com/fatflowers/paylist/internal/app/service/event_log"
	"github.com/fatflowers/paylist/internal/app/service/statistics"
	"github.com/fatflowers/paylist/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespListSubscribers wraps ListSubscribersResponse in the standard envelope.
type RespListSubscribers struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListSubscribersResponse  `json:"data"`
}

// RespSubscriberDetail wraps SubscriberDetail in the standard envelope.
type RespSubscriberDetail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SubscriberDetail         `json:"data"`
}

// RespResyncSubscriber wraps ResyncSubscriberResponse in the standard envelope.
type RespResyncSubscriber struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ResyncSubscriberResponse `json:"data"`
}

// RespListWebhookEvents wraps the webhook event listing in the standard envelope.
type RespListWebhookEvents struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    eventlog.ScanResponse    `json:"data"`
}

// RespPublicationStatistic wraps PublicationStatisticResponse in the standard envelope.
type RespPublicationStatistic struct {
	Code    response.APIResponseCode                `json:"code"`
	Message string                                  `json:"message"`
	Data    statistics.PublicationStatisticResponse `json:"data"`
}
