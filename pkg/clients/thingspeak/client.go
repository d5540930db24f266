package thingspeak

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/config"
)

// ErrChannelNotConfigured is returned when a channel has no ID.
var ErrChannelNotConfigured = errors.New("thingspeak channel not configured")

// Client exposes the ThingSpeak read API used by the application.
type Client interface {
	Feeds(ctx context.Context, ch Channel, results int) ([]Feed, error)
}

// Channel identifies one ThingSpeak channel and its read key.
type Channel struct {
	ID     string
	APIKey string
}

// Configured reports whether the channel can be queried.
func (c Channel) Configured() bool { return strings.TrimSpace(c.ID) != "" }

// Value is a channel field. ThingSpeak sends fields as strings, numbers or
// null; anything that does not parse to a finite number decodes as 0.
type Value float64

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*v = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*v = 0
		return nil
	}
	*v = Value(f)
	return nil
}

// Feed is one channel entry.
type Feed struct {
	CreatedAt time.Time `json:"created_at"`
	EntryID   int64     `json:"entry_id"`
	Field1    Value     `json:"field1"`
	Field2    Value     `json:"field2"`
	Field3    Value     `json:"field3"`
	Field4    Value     `json:"field4"`
	Field5    Value     `json:"field5"`
	Field6    Value     `json:"field6"`
	Field7    Value     `json:"field7"`
	Field8    Value     `json:"field8"`
}

// Field returns field n (1-8) as a float, or 0 when n is out of range.
func (f Feed) Field(n int) float64 {
	switch n {
	case 1:
		return float64(f.Field1)
	case 2:
		return float64(f.Field2)
	case 3:
		return float64(f.Field3)
	case 4:
		return float64(f.Field4)
	case 5:
		return float64(f.Field5)
	case 6:
		return float64(f.Field6)
	case 7:
		return float64(f.Field7)
	case 8:
		return float64(f.Field8)
	}
	return 0
}

type feedsResponse struct {
	Channel struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
	Feeds []Feed `json:"feeds"`
}

// Option customizes an APIClient.
type Option func(*options)

type options struct {
	onStateChange func(name string, from, to gobreaker.State)
}

// WithStateObserver registers a callback for breaker state transitions.
func WithStateObserver(fn func(name string, from, to gobreaker.State)) Option {
	return func(o *options) { o.onStateChange = fn }
}

// APIClient is a resty-backed implementation of Client guarded by a circuit
// breaker.
type APIClient struct {
	httpClient *resty.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient builds a ThingSpeak client from configuration.
func NewClient(cfg config.ThingSpeakConfig, logger *zap.Logger, opts ...Option) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxFailures := uint32(1)
	if cfg.BreakerFailures > 1 {
		maxFailures = uint32(cfg.BreakerFailures)
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "thingspeak",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if o.onStateChange != nil {
				o.onStateChange(name, from, to)
			}
		},
	})

	return &APIClient{
		httpClient: restyClient,
		breaker:    breaker,
		logger:     logger,
	}
}

// Feeds returns the last results entries of the channel, oldest first.
func (c *APIClient) Feeds(ctx context.Context, ch Channel, results int) ([]Feed, error) {
	if !ch.Configured() {
		return nil, ErrChannelNotConfigured
	}
	if results <= 0 {
		results = 1
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, ch, results)
	})
	if err != nil {
		return nil, err
	}
	return out.([]Feed), nil
}

func (c *APIClient) fetch(ctx context.Context, ch Channel, results int) ([]Feed, error) {
	params := map[string]string{"results": strconv.Itoa(results)}
	if ch.APIKey != "" {
		params["api_key"] = ch.APIKey
	}

	body := new(feedsResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("channel", ch.ID).
		SetQueryParams(params).
		SetResult(body).
		ForceContentType("application/json").
		Get("/channels/{channel}/feeds.json")
	if err != nil {
		return nil, fmt.Errorf("fetch thingspeak channel %s: %w", ch.ID, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("thingspeak api error: channel=%s status=%d", ch.ID, resp.StatusCode())
	}

	c.logger.Debug("thingspeak feeds fetched",
		zap.String("channel", ch.ID),
		zap.Int("entries", len(body.Feeds)),
	)
	return body.Feeds, nil
}
