package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/catalog"
)

// EmailConfig configures the direct transactional-email channel.
type EmailConfig struct {
	BaseURL string // e.g. https://api.resend.com
	APIKey  string
	From    string // e.g. Escola Teológica <onboarding@resend.dev>
	To      string // the teacher's inbox
	Timeout time.Duration
}

// Email dispatches records through a Resend-style transactional email API.
type Email struct {
	cfg    EmailConfig
	http   *http.Client
	logger *zap.Logger
}

// NewEmail creates the email channel.
func NewEmail(cfg EmailConfig, logger *zap.Logger) *Email {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Email{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("email"),
	}
}

// Name identifies the channel.
func (e *Email) Name() string { return "email" }

// Dispatch sends one email per accepted record. Failures are terminal for
// the attempt; provider diagnostics go to the log, not the user.
func (e *Email) Dispatch(ctx context.Context, rec attendance.Record) attendance.DispatchResult {
	start := time.Now()
	res := e.send(ctx, rec)
	dispatchDuration.WithLabelValues(e.Name()).Observe(time.Since(start).Seconds())
	dispatchTotal.WithLabelValues(e.Name(), string(res.Status)).Inc()
	return res
}

func (e *Email) send(ctx context.Context, rec attendance.Record) attendance.DispatchResult {
	payload, err := json.Marshal(map[string]any{
		"from":    e.cfg.From,
		"to":      []string{e.cfg.To},
		"subject": fmt.Sprintf("Nova Presença: %s - %s", rec.Name, catalog.DayName(rec.DayOfWeek)),
		"html":    renderEmailBody(rec),
	})
	if err != nil {
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "encode failed"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "request build failed"}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Error("email api request failed", zap.Error(err))
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "email service unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		e.logger.Error("email api rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "email service rejected the message"}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		e.logger.Warn("email api response unreadable", zap.Error(err))
	}
	return attendance.DispatchResult{Status: attendance.DeliveryDelivered, ID: out.ID}
}

// renderEmailBody builds the HTML notification the teacher receives. User
// fields are escaped before interpolation.
func renderEmailBody(rec attendance.Record) string {
	rows := []struct{ label, value string }{
		{"Nome", rec.Name},
		{"Email", rec.Email},
		{"Idade", fmt.Sprintf("%d anos", rec.Age)},
		{"Dia da Aula", catalog.DayName(rec.DayOfWeek)},
		{"Matéria", catalog.SubjectName(rec.Subject)},
		{"Data/Hora", rec.SubmittedAt.UTC().Format("02/01/2006 15:04:05")},
	}
	var b bytes.Buffer
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h1>Nova Presença Registrada</h1><div>`)
	for _, row := range rows {
		fmt.Fprintf(&b, `<p><strong>%s:</strong> %s</p>`, row.label, html.EscapeString(row.value))
	}
	if rec.Address != "" {
		fmt.Fprintf(&b, `<p><strong>Local:</strong> %s</p>`, html.EscapeString(rec.Address))
	}
	b.WriteString(`</div><p>Sistema de Chamada Online - Escola Teológica</p></div>`)
	return b.String()
}
