// Package livetiming maintains a connection to the F1 live timing push feed
// and exposes the latest session snapshot.
package livetiming

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/config"
)

const (
	connectionData = `[{"Name":"Streaming"}]`
	clientProtocol = "1.5"

	reconnectBaseDelay = 5 * time.Second
	reconnectMaxDelay  = 2 * time.Minute
)

// subscribeMessage tells the feed which topics to push.
var subscribeMessage = []byte(`{"H":"Streaming","M":"Subscribe","A":[["Heartbeat","SessionInfo","SessionData","LapCount","TrackStatus","DriverList","TimingData"]],"I":1}`)

// DriverLine is one row of the live leaderboard.
type DriverLine struct {
	Number       string `json:"number"`
	ShortName    string `json:"short_name,omitempty"`
	Name         string `json:"name,omitempty"`
	Team         string `json:"team,omitempty"`
	Position     int    `json:"position,omitempty"`
	GapToLeader  string `json:"gap_to_leader,omitempty"`
	IntervalGap  string `json:"interval_gap,omitempty"`
	LastLapTime  string `json:"last_lap_time,omitempty"`
	InPit        bool   `json:"in_pit,omitempty"`
	Retired      bool   `json:"retired,omitempty"`
	NumberOfLaps int    `json:"number_of_laps,omitempty"`
}

// Snapshot is the latest known state of the live session.
type Snapshot struct {
	MeetingName string       `json:"meeting_name,omitempty"`
	SessionName string       `json:"session_name,omitempty"`
	SessionType string       `json:"session_type,omitempty"`
	CurrentLap  int          `json:"current_lap,omitempty"`
	TotalLaps   int          `json:"total_laps,omitempty"`
	TrackStatus string       `json:"track_status,omitempty"`
	Leaderboard []DriverLine `json:"leaderboard,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Client keeps a websocket connection to the live timing feed open and folds
// incoming deltas into a shared snapshot.
type Client struct {
	httpBaseURL string
	wsBaseURL   string
	httpClient  *http.Client
	dialer      *websocket.Dialer
	log         *logrus.Entry

	connectionToken string
	cookie          string

	mu       sync.RWMutex
	snapshot Snapshot
	drivers  map[string]DriverLine
	fresh    bool
}

// NewClient builds a feed client from the live timing configuration.
func NewClient(cfg config.LiveTimingConfig, baseLogger *logrus.Logger) *Client {
	return &Client{
		httpBaseURL: cfg.HTTPBaseURL,
		wsBaseURL:   cfg.WSBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		dialer:      websocket.DefaultDialer,
		log:         baseLogger.WithField("component", "livetiming"),
		drivers:     make(map[string]DriverLine),
	}
}

// Latest returns the current snapshot. The second return is false until the
// first feed message has been applied.
func (c *Client) Latest() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.fresh
}

// Run connects to the feed and keeps reading until the context is cancelled,
// reconnecting with backoff on failures.
func (c *Client) Run(ctx context.Context) {
	delay := reconnectBaseDelay
	for {
		err := c.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		c.log.WithError(err).Warn("Live timing connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

// listen performs one negotiate/dial/subscribe/read cycle.
func (c *Client) listen(ctx context.Context) error {
	if err := c.negotiate(ctx); err != nil {
		return err
	}

	wsURL, err := c.websocketURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("User-Agent", "BestHTTP")
	header.Set("Accept-Encoding", "gzip,identity")
	if c.cookie != "" {
		header.Set("Cookie", c.cookie)
	}

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("failed to dial live timing feed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, subscribeMessage); err != nil {
		return fmt.Errorf("failed to send subscribe message: %w", err)
	}
	c.log.Info("Subscribed to live timing feed")

	// Unblock the read loop when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("live timing read failed: %w", err)
		}
		c.processMessage(msg)
	}
}

// negotiate retrieves the connection token and cookie required by the feed.
func (c *Client) negotiate(ctx context.Context) error {
	base, err := url.Parse(c.httpBaseURL)
	if err != nil {
		return fmt.Errorf("invalid live timing http_base_url: %w", err)
	}

	negotiateURL := url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   "/signalr/negotiate",
		RawQuery: url.Values{
			"connectionData": {connectionData},
			"clientProtocol": {clientProtocol},
		}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, negotiateURL.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("live timing negotiate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("live timing negotiate returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var negotiated struct {
		ConnectionToken string `json:"ConnectionToken"`
	}
	if err := json.Unmarshal(body, &negotiated); err != nil {
		return fmt.Errorf("failed to parse negotiate response: %w", err)
	}
	if negotiated.ConnectionToken == "" {
		return fmt.Errorf("negotiate response carries no connection token")
	}

	c.connectionToken = negotiated.ConnectionToken
	c.cookie = resp.Header.Get("Set-Cookie")
	c.log.WithField("token_length", len(c.connectionToken)).Debug("Negotiated live timing connection")
	return nil
}

func (c *Client) websocketURL() (string, error) {
	base, err := url.Parse(c.wsBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid live timing ws_base_url: %w", err)
	}

	u := url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   "/signalr/connect",
		RawQuery: url.Values{
			"connectionData":  {connectionData},
			"connectionToken": {c.connectionToken},
			"clientProtocol":  {clientProtocol},
			"transport":       {"webSockets"},
		}.Encode(),
	}
	return u.String(), nil
}
