package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayName(t *testing.T) {
	assert.Equal(t, "Segunda-feira", DayName(1))
	assert.Equal(t, "Quarta-feira", DayName(3))
	assert.Equal(t, "Domingo", DayName(7))
	assert.Equal(t, "", DayName(0))
	assert.Equal(t, "", DayName(8))
}

func TestSubjectName(t *testing.T) {
	assert.Equal(t, "Hermenêutica Bíblica", SubjectName("hermeneutica"))
	assert.Equal(t, "Ética Cristã", SubjectName("etica-crista"))
	// Unknown slugs fall through as-is.
	assert.Equal(t, "alquimia", SubjectName("alquimia"))
}

func TestCatalogListings(t *testing.T) {
	days := Days()
	assert.Len(t, days, 7)
	assert.Equal(t, 1, days[0].Value)
	assert.Equal(t, "Segunda-feira", days[0].Label)

	subjects := Subjects()
	assert.Len(t, subjects, 8)
	assert.Equal(t, "teologia-sistematica", subjects[0].Slug)
	for _, s := range subjects {
		assert.True(t, ValidSubject(s.Slug))
		assert.NotEmpty(t, s.Name)
	}
}
