// Package oura fetches daily biometrics from the Oura ring API and stores
// them through the database layer.
package oura

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/edgard/healthbot/internal/config"
	"github.com/edgard/healthbot/internal/database"
)

// Client talks to the Oura v2 usercollection API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	store      database.Store
	logger     *slog.Logger
}

// NewClient creates an Oura API client writing through the given store.
func NewClient(cfg config.OuraConfig, store database.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		store:      store,
		logger:     logger.With("component", "oura"),
	}
}

// sleepRecord carries the scalar fields extracted from a sleep period
// document. Heart rate and breathing come back as floats from the API and
// are truncated to whole units where the storage column is integral.
type sleepRecord struct {
	Type               string   `json:"type"`
	LowestHeartRate    *float64 `json:"lowest_heart_rate"`
	AverageHeartRate   *float64 `json:"average_heart_rate"`
	AverageHRV         *float64 `json:"average_hrv"`
	TotalSleepDuration *int64   `json:"total_sleep_duration"`
	RemSleepDuration   *int64   `json:"rem_sleep_duration"`
	DeepSleepDuration  *int64   `json:"deep_sleep_duration"`
	LightSleepDuration *int64   `json:"light_sleep_duration"`
	Efficiency         *int64   `json:"efficiency"`
	AverageBreath      *float64 `json:"average_breath"`
}

type scoredRecord struct {
	Score *int64 `json:"score"`
	Steps *int64 `json:"steps"`
}

// fetchEndpoint queries one usercollection endpoint for a single day and
// returns the raw documents.
func (c *Client) fetchEndpoint(ctx context.Context, endpoint, day string) ([]json.RawMessage, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, url.Values{
		"start_date": {day},
		"end_date":   {day},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create oura request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oura %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("oura %s returned %d: %s", endpoint, resp.StatusCode, string(body))
	}

	var payload struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode oura %s response: %w", endpoint, err)
	}
	return payload.Data, nil
}

// FetchDay pulls sleep, readiness, and activity for one day and assembles
// the storage record. Endpoints with no documents leave their fields NULL.
func (c *Client) FetchDay(ctx context.Context, day string) (*database.OuraDay, error) {
	out := &database.OuraDay{Date: day}

	sleepDocs, err := c.fetchEndpoint(ctx, "sleep", day)
	if err != nil {
		return nil, err
	}
	if raw := pickSleep(sleepDocs); raw != nil {
		var s sleepRecord
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode sleep document for %s: %w", day, err)
		}
		out.RawSleepJSON = rawString(raw)
		out.LowestHeartRate = nullIntFromFloat(s.LowestHeartRate)
		out.AverageHeartRate = nullIntFromFloat(s.AverageHeartRate)
		out.AverageHRV = nullIntFromFloat(s.AverageHRV)
		out.TotalSleepS = nullInt(s.TotalSleepDuration)
		out.RemSleepS = nullInt(s.RemSleepDuration)
		out.DeepSleepS = nullInt(s.DeepSleepDuration)
		out.LightSleepS = nullInt(s.LightSleepDuration)
		out.SleepEfficiency = nullInt(s.Efficiency)
		out.BreathingRate = nullFloat(s.AverageBreath)
	}

	readinessDocs, err := c.fetchEndpoint(ctx, "daily_readiness", day)
	if err != nil {
		return nil, err
	}
	if len(readinessDocs) > 0 {
		var r scoredRecord
		if err := json.Unmarshal(readinessDocs[0], &r); err != nil {
			return nil, fmt.Errorf("failed to decode readiness document for %s: %w", day, err)
		}
		out.RawReadinessJSON = rawString(readinessDocs[0])
		out.ReadinessScore = nullInt(r.Score)
	}

	activityDocs, err := c.fetchEndpoint(ctx, "daily_activity", day)
	if err != nil {
		return nil, err
	}
	if len(activityDocs) > 0 {
		var a scoredRecord
		if err := json.Unmarshal(activityDocs[0], &a); err != nil {
			return nil, fmt.Errorf("failed to decode activity document for %s: %w", day, err)
		}
		out.RawActivityJSON = rawString(activityDocs[0])
		out.ActivityScore = nullInt(a.Score)
		out.Steps = nullInt(a.Steps)
	}

	return out, nil
}

// FetchAndStore fetches one day and upserts it.
func (c *Client) FetchAndStore(ctx context.Context, day string) (*database.OuraDay, error) {
	data, err := c.FetchDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := c.store.UpsertOuraDay(ctx, data); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "Stored biometrics", "date", day)
	return data, nil
}

// Backfill fetches and stores every day in [start, end]. Failed days are
// logged and skipped so one bad day doesn't abort the range. Returns the
// number of days stored.
func (c *Client) Backfill(ctx context.Context, start, end string) (int, error) {
	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if startDate.After(endDate) {
		return 0, fmt.Errorf("start date %s is after end date %s", start, end)
	}

	count := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		day := d.Format(time.DateOnly)
		if _, err := c.FetchAndStore(ctx, day); err != nil {
			c.logger.WarnContext(ctx, "Skipping day during backfill", "date", day, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// pickSleep selects the main sleep period: the first long_sleep document,
// falling back to the first document of any type (short nights are tagged
// differently), or nil when the day has none.
func pickSleep(docs []json.RawMessage) json.RawMessage {
	for _, raw := range docs {
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &probe); err == nil && probe.Type == "long_sleep" {
			return raw
		}
	}
	if len(docs) > 0 {
		return docs[0]
	}
	return nil
}

func rawString(raw json.RawMessage) sql.NullString {
	return sql.NullString{String: string(raw), Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullIntFromFloat(v *float64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
