package waste

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/metrics"
)

const (
	// DefaultBaseURL is the REST endpoint of the RegioIT Abfall-App for Aachen.
	DefaultBaseURL = "https://aachen-abfallapp.regioit.de/abfall-app-aachen/rest/"

	upstreamTimeout = 10 * time.Second
	upstreamRate    = rate.Limit(5)
	upstreamBurst   = 5

	eventDateLayout = "2006-01-02"
)

// RegioITClient implements Provider against the RegioIT REST API.
// Requests share a token-bucket rate limiter to stay polite towards the public
// endpoint, and every call runs under a bounded timeout. Timeouts, transport
// errors, non-2xx statuses, and undecodable bodies all map to ErrInvalidResponse.
type RegioITClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRegioITClient creates a client for the given base URL. An empty baseURL
// selects the production endpoint.
func NewRegioITClient(baseURL string) (*RegioITClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL %q: %w", baseURL, err)
	}

	return &RegioITClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: upstreamTimeout},
		limiter:    rate.NewLimiter(upstreamRate, upstreamBurst),
	}, nil
}

// getJSON performs a rate-limited GET against the given path (relative to the
// base URL) and decodes the response body into v.
func (c *RegioITClient) getJSON(ctx context.Context, endpoint, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errs.NewError(errs.ErrInvalidResponse)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return errs.NewError(errs.ErrInvalidResponse)
	}
	target := c.baseURL.ResolveReference(ref)

	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return errs.NewError(errs.ErrInvalidResponse)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		logx.Warn("Upstream request failed", "endpoint", endpoint, "error", err.Error())
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return errs.NewError(errs.ErrInvalidResponse)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logx.Warn("Upstream returned non-success status", "endpoint", endpoint, "status", res.StatusCode)
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return errs.NewError(errs.ErrInvalidResponse)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		logx.Warn("Upstream response could not be decoded", "endpoint", endpoint, "error", err.Error())
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return errs.NewError(errs.ErrInvalidResponse)
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

// Cities returns the full list of known cities.
func (c *RegioITClient) Cities(ctx context.Context) ([]City, error) {
	var cities []City
	if err := c.getJSON(ctx, "orte", "orte/", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// Streets returns the streets of the given city.
func (c *RegioITClient) Streets(ctx context.Context, cityID int64) ([]Street, error) {
	var streets []Street
	if err := c.getJSON(ctx, "strassen", fmt.Sprintf("orte/%d/strassen/", cityID), &streets); err != nil {
		return nil, err
	}
	return streets, nil
}

// StreetNumbers returns the house numbers of the given street, taken from the
// street detail endpoint.
func (c *RegioITClient) StreetNumbers(ctx context.Context, streetID int64) ([]StreetNumber, error) {
	var street Street
	if err := c.getJSON(ctx, "hausnummern", fmt.Sprintf("strassen/%d/", streetID), &street); err != nil {
		return nil, err
	}
	return street.HausNrList, nil
}

// termin is the wire format of a single collection date ("Termin").
type termin struct {
	ID     int64 `json:"id"`
	Bezirk struct {
		FraktionID int64 `json:"fraktionId"`
	} `json:"bezirk"`
	Datum string `json:"datum"`
}

// Events returns the collection events at the given location. The category
// filter is applied server-side through repeated fraktion query parameters.
func (c *RegioITClient) Events(ctx context.Context, locationID int64, categories []Category) ([]Event, error) {
	query := url.Values{}
	for _, cat := range categories {
		query.Add("fraktion", strconv.Itoa(int(cat)))
	}

	path := fmt.Sprintf("hausnummern/%d/termine", locationID)
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var termine []termin
	if err := c.getJSON(ctx, "termine", path, &termine); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(termine))
	for _, t := range termine {
		date, err := time.Parse(eventDateLayout, t.Datum)
		if err != nil {
			logx.Warn("Upstream event has unparsable date", "datum", t.Datum, "termin_id", t.ID)
			return nil, errs.NewError(errs.ErrInvalidResponse)
		}
		events = append(events, Event{Date: date, Category: Category(t.Bezirk.FraktionID)})
	}
	return events, nil
}
