package notify

import (
	"context"
	"net/url"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

// DeepLink builds a chat-app compose URL pre-filled with the formatted
// record. The channel cannot observe delivery: a produced URL is already its
// terminal success ("opened"), the client simply navigates to it.
type DeepLink struct {
	baseURL string // e.g. https://wa.me/5511999999999
}

// NewDeepLink creates the deep-link channel.
func NewDeepLink(baseURL string) *DeepLink {
	return &DeepLink{baseURL: baseURL}
}

// Name identifies the channel.
func (d *DeepLink) Name() string { return "deeplink" }

// Dispatch renders the record into the compose URL's single text parameter.
func (d *DeepLink) Dispatch(_ context.Context, rec attendance.Record) attendance.DispatchResult {
	q := url.Values{}
	q.Set("text", FormatMessage(rec))
	res := attendance.DispatchResult{
		Status: attendance.DeliveryOpened,
		URL:    d.baseURL + "?" + q.Encode(),
	}
	dispatchTotal.WithLabelValues(d.Name(), string(res.Status)).Inc()
	return res
}
