// Package catalog maintains the plugin directory the lookup command
// searches: a JSON feed fetched over HTTPS, cached with a TTL, with a
// deterministic short hash per record for correlating component
// interactions back to a plugin.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"steward/internal/search"

	"go.uber.org/zap"
)

// Plugin statuses as published by the feed. Anything else maps to
// StatusUnknown.
const (
	StatusWorking = "working"
	StatusWarning = "warning"
	StatusBroken  = "broken"
	StatusUnknown = "unknown"
)

type PluginRecord struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Authors        []string `json:"authors"`
	Status         string   `json:"status"`
	SourceURL      string   `json:"sourceUrl"`
	InstallURL     string   `json:"installUrl"`
	WarningMessage string   `json:"warningMessage"`
}

type ScoredMatch struct {
	Record PluginRecord
	Score  float64
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Catalog struct {
	mu        sync.Mutex
	feedURL   string
	ttl       time.Duration
	client    *http.Client
	logger    *zap.Logger
	clock     Clock
	records   []PluginRecord
	fetchedAt time.Time
}

func New(feedURL string, ttl time.Duration, logger *zap.Logger) *Catalog {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Catalog{
		feedURL: feedURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		clock:   realClock{},
	}
}

func (c *Catalog) WithClock(clock Clock) {
	c.clock = clock
}

func (c *Catalog) WithHTTPClient(client *http.Client) {
	c.client = client
}

// Records returns the cached plugin list, refreshing it when the TTL has
// lapsed. A failed refresh serves the stale cache rather than erroring
// out, so the lookup command degrades instead of breaking.
func (c *Catalog) Records(ctx context.Context) ([]PluginRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.records != nil && now.Sub(c.fetchedAt) < c.ttl {
		return c.records, nil
	}

	records, err := c.fetch(ctx)
	if err != nil {
		if c.records != nil {
			c.logger.Warn("plugin feed refresh failed, serving stale cache", zap.Error(err))
			return c.records, nil
		}
		return nil, err
	}

	c.records = records
	c.fetchedAt = now
	return c.records, nil
}

func (c *Catalog) fetch(ctx context.Context) ([]PluginRecord, error) {
	if c.feedURL == "" {
		return nil, fmt.Errorf("plugin feed url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plugin feed returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}

	var records []PluginRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("plugin feed decode: %w", err)
	}
	for i := range records {
		records[i].Status = normalizeStatus(records[i].Status)
	}
	return records, nil
}

// Search ranks the cached records against query and returns those at or
// above threshold, best first. Ties keep feed order.
func (c *Catalog) Search(ctx context.Context, query string, threshold float64) ([]ScoredMatch, error) {
	records, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Name
	}

	ranked := search.Rank(names, query, threshold)
	matches := make([]ScoredMatch, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, ScoredMatch{Record: records[r.Index], Score: r.Score})
	}
	return matches, nil
}

// FindByHash looks a record up by its short hash, used to tie an install
// button press back to the plugin it was rendered for.
func (c *Catalog) FindByHash(ctx context.Context, hash string) (PluginRecord, bool) {
	records, err := c.Records(ctx)
	if err != nil {
		return PluginRecord{}, false
	}
	for _, record := range records {
		if ShortHash(record.Name) == hash {
			return record, true
		}
	}
	return PluginRecord{}, false
}

// CachedSize reports how many records are currently cached, without
// triggering a fetch.
func (c *Catalog) CachedSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// ShortHash returns a deterministic 8-hex-digit FNV-1a hash of the
// plugin name, stable across processes so component custom IDs survive
// restarts.
func ShortHash(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return fmt.Sprintf("%08x", h.Sum32())
}

func normalizeStatus(status string) string {
	switch strings.ToLower(status) {
	case StatusWorking, StatusWarning, StatusBroken:
		return strings.ToLower(status)
	default:
		return StatusUnknown
	}
}
