package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/catalog"
)

// Line prefixes of the compose message. Day and subject lines carry the raw
// value ahead of the human label so the message parses back losslessly.
const (
	msgHeader    = "Nova Presença Registrada"
	prefixName   = "Nome: "
	prefixEmail  = "E-mail: "
	prefixAge    = "Idade: "
	prefixDay    = "Dia: "
	prefixSub    = "Matéria: "
	prefixStamp  = "Registrado em: "
	labelDivider = " - "
)

// FormatMessage renders a record as the line-oriented text used by the
// deep-link channel.
func FormatMessage(rec attendance.Record) string {
	var b strings.Builder
	b.WriteString(msgHeader + "\n")
	b.WriteString(prefixName + rec.Name + "\n")
	b.WriteString(prefixEmail + rec.Email + "\n")
	b.WriteString(prefixAge + strconv.Itoa(rec.Age) + "\n")
	b.WriteString(prefixDay + strconv.Itoa(rec.DayOfWeek) + labelDivider + catalog.DayName(rec.DayOfWeek) + "\n")
	b.WriteString(prefixSub + rec.Subject + labelDivider + catalog.SubjectName(rec.Subject) + "\n")
	b.WriteString(prefixStamp + rec.SubmittedAt.UTC().Format(time.RFC3339Nano))
	return b.String()
}

// ParseMessage recovers the record fields from a formatted message. It is the
// inverse of FormatMessage for name, email, age, day, subject and timestamp.
func ParseMessage(text string) (attendance.Record, error) {
	var rec attendance.Record
	rec.Status = attendance.StatusPresent

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, prefixName):
			rec.Name = strings.TrimPrefix(line, prefixName)
		case strings.HasPrefix(line, prefixEmail):
			rec.Email = strings.TrimPrefix(line, prefixEmail)
		case strings.HasPrefix(line, prefixAge):
			age, err := strconv.Atoi(strings.TrimPrefix(line, prefixAge))
			if err != nil {
				return attendance.Record{}, fmt.Errorf("bad age line: %w", err)
			}
			rec.Age = age
		case strings.HasPrefix(line, prefixDay):
			raw, _, _ := strings.Cut(strings.TrimPrefix(line, prefixDay), labelDivider)
			day, err := strconv.Atoi(raw)
			if err != nil {
				return attendance.Record{}, fmt.Errorf("bad day line: %w", err)
			}
			rec.DayOfWeek = day
		case strings.HasPrefix(line, prefixSub):
			slug, _, _ := strings.Cut(strings.TrimPrefix(line, prefixSub), labelDivider)
			rec.Subject = slug
		case strings.HasPrefix(line, prefixStamp):
			ts, err := time.Parse(time.RFC3339Nano, strings.TrimPrefix(line, prefixStamp))
			if err != nil {
				return attendance.Record{}, fmt.Errorf("bad timestamp line: %w", err)
			}
			rec.SubmittedAt = ts
		}
	}

	if rec.Email == "" || rec.Name == "" {
		return attendance.Record{}, fmt.Errorf("message missing identity lines")
	}
	return rec, nil
}
