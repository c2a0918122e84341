package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Place is the useful subset of a reverse-geocode response. PostalCode is
// empty when the provider resolved the point but knows no code for it.
type Place struct {
	PostalCode  string
	DisplayName string
}

// Client calls a Nominatim-style reverse-geocoding HTTP API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client with a bounded request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// address mirrors the provider's address object. Providers disagree on the
// key that carries the postal code, so all known spellings are scanned.
type address struct {
	Postcode   string `json:"postcode"`
	PostalCode string `json:"postal_code"`
	CEP        string `json:"cep"`
	Zip        string `json:"zip"`
}

func (a address) postalCode() string {
	for _, v := range []string{a.Postcode, a.PostalCode, a.CEP, a.Zip} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Reverse resolves coordinates to a Place. A response with no postal code
// under any known key yields a Place with an empty PostalCode, not an error;
// wire-level and non-2xx failures are returned as errors for the caller to
// degrade on.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Place{}, fmt.Errorf("geocode service error %s: %s", resp.Status, string(body))
	}

	var out struct {
		DisplayName string  `json:"display_name"`
		Address     address `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Place{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	return Place{
		PostalCode:  out.Address.postalCode(),
		DisplayName: out.DisplayName,
	}, nil
}
