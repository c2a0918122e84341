package attendance

import "context"

// DeliveryStatus is the outcome of handing a record to a notification channel.
type DeliveryStatus string

const (
	// DeliveryDelivered means the channel confirmed acceptance.
	DeliveryDelivered DeliveryStatus = "delivered"
	// DeliveryFailed means the channel rejected or errored. The record is
	// still accepted locally.
	DeliveryFailed DeliveryStatus = "failed"
	// DeliveryOpened means a compose view was produced; deep-link channels
	// cannot report actual delivery.
	DeliveryOpened DeliveryStatus = "opened"
	// DeliveryPending means the record was queued for out-of-band dispatch.
	DeliveryPending DeliveryStatus = "pending"
)

// DispatchResult reports what a dispatcher did with a record.
type DispatchResult struct {
	Status DeliveryStatus `json:"status"`
	// ID is the provider's delivery identifier, when the channel reports one.
	ID string `json:"id,omitempty"`
	// URL is the compose link for deep-link channels.
	URL string `json:"url,omitempty"`
	// Reason explains a failed delivery in user-safe terms.
	Reason string `json:"reason,omitempty"`
}

// Dispatcher hands a finalized record to exactly one external notification
// channel. Implementations live in internal/notify.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, rec Record) DispatchResult
}

// Roster is the session-scoped, append-only, email-unique collection of
// accepted records. Append must be atomic with respect to the uniqueness
// check so two racing submissions cannot both commit the same email.
type Roster interface {
	Append(ctx context.Context, sessionID string, rec Record) error
	Contains(ctx context.Context, sessionID, email string) (bool, error)
	List(ctx context.Context, sessionID string) ([]Record, error)
}

// Enqueuer defers delivery to an out-of-band worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, sessionID string, rec Record) error
}
