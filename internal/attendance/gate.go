package attendance

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/geocode"
)

// Geocoder resolves coordinates to a place. Satisfied by *geocode.Client.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (geocode.Place, error)
}

// Authorization is what a passing gate check carries into the record.
type Authorization struct {
	Latitude   float64
	Longitude  float64
	PostalCode string
	Address    string
}

// Gate compares a submission's reverse-geocoded postal code against the one
// allowed campus code. It is a single-value geofence: no tolerance radius, no
// multi-site support, and it trusts client-reported coordinates.
type Gate struct {
	geocoder Geocoder
	allowed  string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewGate builds a gate for one allowed postal code (stored normalized).
func NewGate(geocoder Geocoder, allowedCode string, timeout time.Duration, logger *zap.Logger) *Gate {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Gate{
		geocoder: geocoder,
		allowed:  NormalizePostalCode(allowedCode),
		timeout:  timeout,
		logger:   logger.Named("gate"),
	}
}

// Authorize runs the reverse lookup and the exact-match comparison. Lookup
// failures degrade to ErrGeocodeUnresolved rather than surfacing wire errors;
// a code mismatch (or no code at all) is terminal for this attempt.
func (g *Gate) Authorize(ctx context.Context, lat, lon float64) (Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	place, err := g.geocoder.Reverse(ctx, lat, lon)
	geocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		g.logger.Warn("reverse geocode failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err))
		return Authorization{}, ErrGeocodeUnresolved
	}

	code := NormalizePostalCode(place.PostalCode)
	if code == "" {
		return Authorization{}, ErrGeocodeUnresolved
	}
	if code != g.allowed {
		g.logger.Info("postal code outside campus",
			zap.String("resolved", code))
		return Authorization{}, ErrLocationNotAuthorized
	}

	return Authorization{
		Latitude:   lat,
		Longitude:  lon,
		PostalCode: place.PostalCode,
		Address:    place.DisplayName,
	}, nil
}

// NormalizePostalCode strips every non-digit rune, so "01310-100" and
// "01310100" compare equal.
func NormalizePostalCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
