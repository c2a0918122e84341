package attendance

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mateuseller4-oss/celestial-register/internal/catalog"
)

// Age bounds match the form's input constraints.
const (
	MinAge = 16
	MaxAge = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as the form knows them (json tags), not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateDraft checks a draft against the form rules: all fields present,
// the email well-formed, age an integer in [16,100], day a weekday index and
// the subject a known catalog slug. It is a pure check with no side effects
// and never reaches the network.
//
// On success it returns the parsed age and day; on failure a *ValidationError
// listing every offending field.
func ValidateDraft(d Draft) (age, day int, err error) {
	var fields []string

	if verr := validate.Struct(d); verr != nil {
		if invalid, ok := verr.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				fields = append(fields, fe.Field())
			}
		} else {
			return 0, 0, verr
		}
	}

	age, ageErr := strconv.Atoi(strings.TrimSpace(d.Age))
	if d.Age != "" && (ageErr != nil || age < MinAge || age > MaxAge) {
		fields = append(fields, "age")
	}

	day, dayErr := strconv.Atoi(strings.TrimSpace(d.DayOfWeek))
	if d.DayOfWeek != "" && (dayErr != nil || !catalog.ValidDay(day)) {
		fields = append(fields, "day")
	}

	if d.Subject != "" && !catalog.ValidSubject(d.Subject) {
		fields = append(fields, "materia")
	}

	if len(fields) > 0 {
		return 0, 0, &ValidationError{Fields: dedupe(fields)}
	}
	return age, day, nil
}

func dedupe(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
