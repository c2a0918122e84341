package attendance

import "time"

// StatusPresent is the only status a form submission ever produces.
const StatusPresent = "present"

// Draft is the raw form payload before any validation. Age and day arrive as
// text because that is what the form posts.
type Draft struct {
	Email     string   `json:"email" validate:"required,email"`
	FullName  string   `json:"fullName" validate:"required"`
	Age       string   `json:"age" validate:"required"`
	DayOfWeek string   `json:"day" validate:"required"`
	Subject   string   `json:"materia" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Record is an accepted attendance entry. It is never mutated after creation
// and lives only as long as the session roster that owns it.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Age         int       `json:"age"`
	DayOfWeek   int       `json:"day"`
	Subject     string    `json:"materia"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Address     string    `json:"address,omitempty"`
}
