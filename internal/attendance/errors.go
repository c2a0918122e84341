package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the submission pipeline. Every one of them returns the
// form to an editable state; none aborts the process and none is retried
// automatically.
var (
	// ErrDuplicate means the session roster already has a record with the
	// candidate email.
	ErrDuplicate = errors.New("presença já registrada para este e-mail")

	// ErrLocationUnavailable means the geofence is on but the submission
	// carried no coordinates (the device denied or timed out acquiring them).
	ErrLocationUnavailable = errors.New("localização indisponível")

	// ErrGeocodeUnresolved means the reverse-geocode lookup produced no usable
	// postal code.
	ErrGeocodeUnresolved = errors.New("não foi possível determinar o CEP da sua localização")

	// ErrLocationNotAuthorized means the resolved postal code does not match
	// the allowed campus code.
	ErrLocationNotAuthorized = errors.New("localização não autorizada")
)

// ValidationError carries the names of the fields that failed validation.
// The form shows a single summary message; the field list is available for
// callers that want itemized feedback.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("preencha todos os campos: %s", strings.Join(e.Fields, ", "))
}

// DispatchError wraps a notification-channel failure. The record is still
// accepted locally; only delivery failed.
type DispatchError struct {
	Channel string
	Reason  string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s failed: %s", e.Channel, e.Reason)
}
