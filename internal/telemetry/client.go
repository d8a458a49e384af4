// Package telemetry provides anonymous usage tracking via PostHog.
package telemetry

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

// PostHogAPIKey is set at compile time via ldflags.
var PostHogAPIKey string

// EnvDisable turns telemetry off when set to "false".
const EnvDisable = "SWATCH_TELEMETRY_TRACKING_ENABLED"

const (
	endpoint      = "https://us.i.posthog.com"
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// TrackingIDProvider hands out the persistent anonymous ID.
type TrackingIDProvider interface {
	GetOrCreateTrackingID() string
}

// Client records usage events. Every event carries the base properties
// (os, arch, version, channel) and never carries a custom theme's name.
type Client interface {
	Track(event string, properties map[string]interface{})
	Close()
	GetTrackingID() string

	TrackThemeApplied(e ThemeApplied)
	TrackWallpaperApplied(applied bool, strategies int)
	TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64)
	TrackCLIError(commandName, errorType string)
}

// sink is the part of posthog.Client swatch uses.
type sink interface {
	Enqueue(posthog.Message) error
	Close() error
}

type posthogClient struct {
	mu         sync.Mutex
	sink       sink
	trackingID string
}

type noopClient struct{}

// IsEnabled reports whether events are sent. Tracking is opt-out and needs
// a build with an API key.
func IsEnabled() bool {
	return os.Getenv(EnvDisable) != "false" && PostHogAPIKey != ""
}

// New returns a PostHog-backed client, or a no-op one when tracking is off
// or the SDK cannot be set up. Without a provider the ID lasts one session.
func New(provider TrackingIDProvider) Client {
	if !IsEnabled() {
		return Noop()
	}
	ph, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:  endpoint,
		BatchSize: batchSize,
		Interval:  flushInterval,
	})
	if err != nil {
		return Noop()
	}

	id := uuid.New().String()
	if provider != nil {
		id = provider.GetOrCreateTrackingID()
	}
	return newClient(ph, id)
}

func newClient(s sink, trackingID string) *posthogClient {
	return &posthogClient{sink: s, trackingID: trackingID}
}

// Noop returns a client that records nothing.
func Noop() Client {
	return noopClient{}
}

// Track enqueues event with the base properties merged in.
func (c *posthogClient) Track(event string, properties map[string]interface{}) {
	msg := c.capture(event, properties)

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.sink.Enqueue(msg)
}

// capture builds the outgoing message. Event properties win over base ones,
// and a theme name is dropped whenever the event marks the theme custom.
func (c *posthogClient) capture(event string, properties map[string]interface{}) posthog.Capture {
	props := posthog.NewProperties().
		Set("$process_person_profile", false).
		Set("$geoip_disable", true)
	for k, v := range baseProperties() {
		props.Set(k, v)
	}
	for k, v := range properties {
		props.Set(k, v)
	}
	if custom, _ := props["is_custom"].(bool); custom {
		delete(props, "theme")
	}
	return posthog.Capture{
		DistinctId: c.trackingID,
		Event:      event,
		Properties: props,
	}
}

// Close flushes queued events.
func (c *posthogClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.sink.Close()
}

func (c *posthogClient) GetTrackingID() string {
	return c.trackingID
}

func (noopClient) Track(string, map[string]interface{}) {}
func (noopClient) Close()                               {}
func (noopClient) GetTrackingID() string                { return "" }
