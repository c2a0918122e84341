package catalog

// Day labels are indexed 1..7, matching the values the form submits.
var dayNames = [8]string{
	"",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

var subjectNames = map[string]string{
	"teologia-sistematica": "Teologia Sistemática",
	"hermeneutica":         "Hermenêutica Bíblica",
	"historia-igreja":      "História da Igreja",
	"homiletica":           "Homilética",
	"teologia-pastoral":    "Teologia Pastoral",
	"apologetica":          "Apologética",
	"missoes":              "Missões",
	"etica-crista":         "Ética Cristã",
}

// subjectOrder keeps /v1/catalog output stable for the form's select.
var subjectOrder = []string{
	"teologia-sistematica",
	"hermeneutica",
	"historia-igreja",
	"homiletica",
	"teologia-pastoral",
	"apologetica",
	"missoes",
	"etica-crista",
}

// ValidDay reports whether day is a weekday index the form can submit.
func ValidDay(day int) bool {
	return day >= 1 && day <= 7
}

// DayName returns the pt-BR label for a weekday index, or "" when out of range.
func DayName(day int) string {
	if !ValidDay(day) {
		return ""
	}
	return dayNames[day]
}

// ValidSubject reports whether slug names a known subject.
func ValidSubject(slug string) bool {
	_, ok := subjectNames[slug]
	return ok
}

// SubjectName returns the display name for a subject slug. Unknown slugs are
// returned as-is so a stale form still produces a readable message.
func SubjectName(slug string) string {
	if name, ok := subjectNames[slug]; ok {
		return name
	}
	return slug
}

// Day is a catalog entry for the form's class-day select.
type Day struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Subject is a catalog entry for the form's subject select.
type Subject struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Days lists the selectable class days in week order.
func Days() []Day {
	out := make([]Day, 0, 7)
	for i := 1; i <= 7; i++ {
		out = append(out, Day{Value: i, Label: dayNames[i]})
	}
	return out
}

// Subjects lists the selectable subjects in display order.
func Subjects() []Subject {
	out := make([]Subject, 0, len(subjectOrder))
	for _, slug := range subjectOrder {
		out = append(out, Subject{Slug: slug, Name: subjectNames[slug]})
	}
	return out
}
