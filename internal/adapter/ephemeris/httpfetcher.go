package ephemeris

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/skywatch/eventline/internal/astro/catalog"
	coreephemeris "github.com/skywatch/eventline/internal/astro/ephemeris"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPFetcher is the production Fetcher: it calls a remote ephemeris
// service's /samples endpoint, which returns one Sample per (body,
// timestamp) minute in the requested range.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher builds an HTTPFetcher with a bounded-timeout client.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type sampleWire struct {
	Body      string               `json:"body"`
	Timestamp time.Time            `json:"timestamp"`
	Sample    coreephemeris.Sample `json:"sample"`
}

// FetchRange satisfies Fetcher.
func (f *HTTPFetcher) FetchRange(ctx context.Context, bodies []catalog.Body, start, end time.Time) (map[catalog.Body]map[time.Time]coreephemeris.Sample, error) {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.String()
	}

	query := url.Values{}
	for _, n := range names {
		query.Add("body", n)
	}
	query.Set("start", start.UTC().Format(time.RFC3339))
	query.Set("end", end.UTC().Format(time.RFC3339))

	reqURL := fmt.Sprintf("%s/samples?%s", f.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building ephemeris request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ephemeris service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ephemeris service returned status %d", resp.StatusCode)
	}

	var wire []sampleWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding ephemeris response: %w", err)
	}

	out := make(map[catalog.Body]map[time.Time]coreephemeris.Sample)
	for _, w := range wire {
		body, err := catalog.ParseBody(w.Body)
		if err != nil {
			continue
		}
		if out[body] == nil {
			out[body] = make(map[time.Time]coreephemeris.Sample)
		}
		out[body][w.Timestamp] = w.Sample
	}
	return out, nil
}
