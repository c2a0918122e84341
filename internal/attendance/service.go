package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the submission pipeline: validate, duplicate guard, optional
// location gate, roster append, notification dispatch. Acceptance is local:
// a delivery failure never rolls a committed record back.
type Service struct {
	roster     Roster
	gate       *Gate // nil when the geofence is disabled
	dispatcher Dispatcher
	enqueuer   Enqueuer // when set, delivery is deferred to a worker
	logger     *zap.Logger
}

// NewService builds the pipeline. Either dispatcher or enqueuer carries the
// accepted record onward; when both are set the enqueuer wins.
func NewService(roster Roster, gate *Gate, dispatcher Dispatcher, enqueuer Enqueuer, logger *zap.Logger) *Service {
	return &Service{
		roster:     roster,
		gate:       gate,
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
		logger:     logger.Named("attendance"),
	}
}

// Submit processes one draft for the given session. The stages run in order
// and the first failure is terminal for this attempt; no stage is retried.
// Local checks run before anything that touches the network.
func (s *Service) Submit(ctx context.Context, sessionID string, d Draft) (Record, DispatchResult, error) {
	age, day, err := ValidateDraft(d)
	if err != nil {
		submissionsTotal.WithLabelValues(outcomeInvalid).Inc()
		return Record{}, DispatchResult{}, err
	}

	dup, err := s.roster.Contains(ctx, sessionID, d.Email)
	if err != nil {
		return Record{}, DispatchResult{}, err
	}
	if dup {
		submissionsTotal.WithLabelValues(outcomeDuplicate).Inc()
		return Record{}, DispatchResult{}, ErrDuplicate
	}

	rec := Record{
		ID:          uuid.NewString(),
		Name:        d.FullName,
		Email:       d.Email,
		Age:         age,
		DayOfWeek:   day,
		Subject:     d.Subject,
		Status:      StatusPresent,
		SubmittedAt: time.Now().UTC(),
	}

	if s.gate != nil {
		if d.Latitude == nil || d.Longitude == nil {
			submissionsTotal.WithLabelValues(outcomeNoLocation).Inc()
			return Record{}, DispatchResult{}, ErrLocationUnavailable
		}
		auth, err := s.gate.Authorize(ctx, *d.Latitude, *d.Longitude)
		if err != nil {
			switch {
			case errors.Is(err, ErrGeocodeUnresolved):
				submissionsTotal.WithLabelValues(outcomeUnresolved).Inc()
			case errors.Is(err, ErrLocationNotAuthorized):
				submissionsTotal.WithLabelValues(outcomeNotAuthorized).Inc()
			}
			return Record{}, DispatchResult{}, err
		}
		rec.Latitude = &auth.Latitude
		rec.Longitude = &auth.Longitude
		rec.PostalCode = auth.PostalCode
		rec.Address = auth.Address
	}

	// Commit point. Append re-checks uniqueness atomically so a racing
	// submission with the same email cannot also land.
	if err := s.roster.Append(ctx, sessionID, rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			submissionsTotal.WithLabelValues(outcomeRosterConflict).Inc()
		}
		return Record{}, DispatchResult{}, err
	}
	submissionsTotal.WithLabelValues(outcomeAccepted).Inc()

	return rec, s.deliver(ctx, sessionID, rec), nil
}

// deliver hands the committed record onward and reports the delivery status
// separately from acceptance.
func (s *Service) deliver(ctx context.Context, sessionID string, rec Record) DispatchResult {
	if s.enqueuer != nil {
		if err := s.enqueuer.Enqueue(ctx, sessionID, rec); err != nil {
			s.logger.Error("dispatch enqueue failed", zap.String("record_id", rec.ID), zap.Error(err))
			return DispatchResult{Status: DeliveryFailed, Reason: "notification queue unavailable"}
		}
		return DispatchResult{Status: DeliveryPending}
	}

	res := s.dispatcher.Dispatch(ctx, rec)
	if res.Status == DeliveryFailed {
		s.logger.Error("dispatch failed",
			zap.String("channel", s.dispatcher.Name()),
			zap.String("record_id", rec.ID),
			zap.String("reason", res.Reason))
	}
	return res
}

// List returns the session's roster in insertion order.
func (s *Service) List(ctx context.Context, sessionID string) ([]Record, error) {
	return s.roster.List(ctx, sessionID)
}
