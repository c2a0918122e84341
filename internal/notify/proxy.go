package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

// Proxy dispatches records through a same-origin serverless forwarding
// endpoint that owns the provider credentials. The wire contract is the flat
// field set the form has always posted.
type Proxy struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewProxy creates the proxy channel.
func NewProxy(url string, timeout time.Duration, logger *zap.Logger) *Proxy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Proxy{
		url:    url,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("proxy"),
	}
}

// Name identifies the channel.
func (p *Proxy) Name() string { return "proxy" }

type proxyResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Dispatch forwards the record's fields and reads the {success, emailId} /
// {error, message} response.
func (p *Proxy) Dispatch(ctx context.Context, rec attendance.Record) attendance.DispatchResult {
	start := time.Now()
	res := p.forward(ctx, rec)
	dispatchDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	dispatchTotal.WithLabelValues(p.Name(), string(res.Status)).Inc()
	return res
}

func (p *Proxy) forward(ctx context.Context, rec attendance.Record) attendance.DispatchResult {
	payload, _ := json.Marshal(map[string]string{
		"email":    rec.Email,
		"fullName": rec.Name,
		"age":      strconv.Itoa(rec.Age),
		"day":      strconv.Itoa(rec.DayOfWeek),
		"materia":  rec.Subject,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "request build failed"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Error("notification proxy unreachable", zap.Error(err))
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "notification service unreachable"}
	}
	defer resp.Body.Close()

	var out proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		p.logger.Error("notification proxy response unreadable", zap.Error(err))
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "notification service error"}
	}

	if resp.StatusCode >= 300 || !out.Success {
		p.logger.Error("notification proxy rejected record",
			zap.Int("status", resp.StatusCode),
			zap.String("error", out.Error),
			zap.String("message", out.Message))
		return attendance.DispatchResult{Status: attendance.DeliveryFailed, Reason: "notification service rejected the record"}
	}
	return attendance.DispatchResult{Status: attendance.DeliveryDelivered, ID: out.EmailID}
}
