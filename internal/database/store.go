package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access operations the rest of the application uses.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveTranscript inserts a new voice note transcript.
	SaveTranscript(ctx context.Context, t *Transcript) error

	// ListTranscripts returns transcripts with start <= date <= end,
	// ordered by date then insertion time.
	ListTranscripts(ctx context.Context, start, end string) ([]Transcript, error)

	// UpsertOuraDay inserts or replaces the biometric record for a day.
	UpsertOuraDay(ctx context.Context, d *OuraDay) error

	// ListOuraDays returns biometric records with start <= date <= end,
	// ascending by date.
	ListOuraDays(ctx context.Context, start, end string) ([]OuraDay, error)

	// SaveAnalysis inserts a completed analysis record.
	SaveAnalysis(ctx context.Context, a *Analysis) error

	// UpsertChecklist inserts or replaces the checklist entry for its day.
	// Replace semantics: a second submission for the same day fully
	// overwrites the first.
	UpsertChecklist(ctx context.Context, e *ChecklistEntry) error

	// GetChecklist returns the entry for a day, or nil when absent.
	GetChecklist(ctx context.Context, day string) (*ChecklistEntry, error)

	// ListChecklists returns entries with start <= date <= end, ascending
	// by date.
	ListChecklists(ctx context.Context, start, end string) ([]ChecklistEntry, error)

	// UpsertLastMealTime records the last meal time ("HH:MM") for a day.
	UpsertLastMealTime(ctx context.Context, day, timeStr string) error

	// GetLastMealTime returns the logged meal time for a day, or "" when
	// absent.
	GetLastMealTime(ctx context.Context, day string) (string, error)

	// GetSetting returns the value for a key, or "" when absent.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting inserts or replaces a key/value setting.
	SetSetting(ctx context.Context, key, value string) error

	// GetStats summarizes collected data for the /status command.
	GetStats(ctx context.Context) (*Stats, error)

	// RunSQLMaintenance performs maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx over SQLite.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveTranscript(ctx context.Context, t *Transcript) error {
	if t == nil {
		return errors.New("cannot save nil transcript")
	}
	if t.Date == "" || t.RawText == "" {
		return errors.New("transcript must have a date and raw text")
	}

	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO transcripts (date, raw_text, duration_s, file_id)
        VALUES (:date, :raw_text, :duration_s, :file_id)`, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving transcript", "date", t.Date, "error", err)
		return fmt.Errorf("failed to save transcript for %s: %w", t.Date, err)
	}

	if id, err := res.LastInsertId(); err == nil {
		t.ID = id
	}
	return nil
}

func (s *sqlxStore) ListTranscripts(ctx context.Context, start, end string) ([]Transcript, error) {
	var out []Transcript
	err := s.db.SelectContext(ctx, &out, `
        SELECT id, created_at, date, raw_text, duration_s, file_id
        FROM transcripts
        WHERE date >= ? AND date <= ?
        ORDER BY date, created_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts %s..%s: %w", start, end, err)
	}
	return out, nil
}

func (s *sqlxStore) UpsertOuraDay(ctx context.Context, d *OuraDay) error {
	if d == nil {
		return errors.New("cannot save nil oura day")
	}
	if d.Date == "" {
		return errors.New("oura day must have a date")
	}

	_, err := s.db.NamedExecContext(ctx, `
        INSERT OR REPLACE INTO oura_data
            (date, lowest_heart_rate, average_heart_rate, average_hrv,
             total_sleep_s, rem_sleep_s, deep_sleep_s, light_sleep_s,
             sleep_efficiency, breathing_rate, readiness_score,
             activity_score, steps, raw_sleep_json, raw_readiness_json, raw_activity_json)
        VALUES
            (:date, :lowest_heart_rate, :average_heart_rate, :average_hrv,
             :total_sleep_s, :rem_sleep_s, :deep_sleep_s, :light_sleep_s,
             :sleep_efficiency, :breathing_rate, :readiness_score,
             :activity_score, :steps, :raw_sleep_json, :raw_readiness_json, :raw_activity_json)`, d)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting oura day", "date", d.Date, "error", err)
		return fmt.Errorf("failed to upsert oura data for %s: %w", d.Date, err)
	}
	return nil
}

func (s *sqlxStore) ListOuraDays(ctx context.Context, start, end string) ([]OuraDay, error) {
	var out []OuraDay
	err := s.db.SelectContext(ctx, &out, `
        SELECT id, date, fetched_at, lowest_heart_rate, average_heart_rate, average_hrv,
               total_sleep_s, rem_sleep_s, deep_sleep_s, light_sleep_s,
               sleep_efficiency, breathing_rate, readiness_score,
               activity_score, steps, raw_sleep_json, raw_readiness_json, raw_activity_json
        FROM oura_data
        WHERE date >= ? AND date <= ?
        ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list oura data %s..%s: %w", start, end, err)
	}
	return out, nil
}

func (s *sqlxStore) SaveAnalysis(ctx context.Context, a *Analysis) error {
	if a == nil {
		return errors.New("cannot save nil analysis")
	}

	res, err := s.db.NamedExecContext(ctx, `
        INSERT INTO analyses (days_back, prompt, response, model)
        VALUES (:days_back, :prompt, :response, :model)`, a)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving analysis", "error", err)
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		a.ID = id
	}
	return nil
}

func (s *sqlxStore) UpsertChecklist(ctx context.Context, e *ChecklistEntry) error {
	if e == nil {
		return errors.New("cannot save nil checklist entry")
	}
	if e.Date == "" {
		return errors.New("checklist entry must have a date")
	}

	_, err := s.db.NamedExecContext(ctx, `
        INSERT OR REPLACE INTO daily_checklist
            (date, electronics_off, nasal_rinse, nasal_strips, mouth_taping,
             sauna, diaphragm_work, heavy_screen_day, meditation, meditation_minutes,
             training_type, last_meal_time, caffeine_cutoff, hydration, supplements,
             other_notes)
        VALUES
            (:date, :electronics_off, :nasal_rinse, :nasal_strips, :mouth_taping,
             :sauna, :diaphragm_work, :heavy_screen_day, :meditation, :meditation_minutes,
             :training_type, :last_meal_time, :caffeine_cutoff, :hydration, :supplements,
             :other_notes)`, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting checklist", "date", e.Date, "error", err)
		return fmt.Errorf("failed to upsert checklist for %s: %w", e.Date, err)
	}
	return nil
}

func (s *sqlxStore) GetChecklist(ctx context.Context, day string) (*ChecklistEntry, error) {
	var e ChecklistEntry
	err := s.db.GetContext(ctx, &e, `
        SELECT id, date, created_at, electronics_off, nasal_rinse, nasal_strips,
               mouth_taping, sauna, diaphragm_work, heavy_screen_day, meditation,
               meditation_minutes, training_type, last_meal_time, caffeine_cutoff,
               hydration, supplements, other_notes
        FROM daily_checklist WHERE date = ?`, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist for %s: %w", day, err)
	}
	return &e, nil
}

func (s *sqlxStore) ListChecklists(ctx context.Context, start, end string) ([]ChecklistEntry, error) {
	var out []ChecklistEntry
	err := s.db.SelectContext(ctx, &out, `
        SELECT id, date, created_at, electronics_off, nasal_rinse, nasal_strips,
               mouth_taping, sauna, diaphragm_work, heavy_screen_day, meditation,
               meditation_minutes, training_type, last_meal_time, caffeine_cutoff,
               hydration, supplements, other_notes
        FROM daily_checklist
        WHERE date >= ? AND date <= ?
        ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists %s..%s: %w", start, end, err)
	}
	return out, nil
}

func (s *sqlxStore) UpsertLastMealTime(ctx context.Context, day, timeStr string) error {
	if day == "" || timeStr == "" {
		return errors.New("meal log requires a day and a time")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO last_meal_log (date, time) VALUES (?, ?)`, day, timeStr)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting meal log", "date", day, "error", err)
		return fmt.Errorf("failed to log meal time for %s: %w", day, err)
	}
	return nil
}

func (s *sqlxStore) GetLastMealTime(ctx context.Context, day string) (string, error) {
	var timeStr string
	err := s.db.GetContext(ctx, &timeStr, `SELECT time FROM last_meal_log WHERE date = ?`, day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meal time for %s: %w", day, err)
	}
	return timeStr, nil
}

func (s *sqlxStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *sqlxStore) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("setting key is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

func (s *sqlxStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.GetContext(ctx, &stats.TranscriptCount, `SELECT COUNT(*) FROM transcripts`); err != nil {
		return nil, fmt.Errorf("failed to count transcripts: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.OuraCount, `SELECT COUNT(*) FROM oura_data`); err != nil {
		return nil, fmt.Errorf("failed to count oura days: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.ChecklistCount, `SELECT COUNT(*) FROM daily_checklist`); err != nil {
		return nil, fmt.Errorf("failed to count checklists: %w", err)
	}

	// MIN/MAX over empty tables yield NULL, which the Null types absorb.
	if err := s.db.GetContext(ctx, &stats.LastAnalysisAt,
		`SELECT MAX(created_at) FROM analyses`); err != nil {
		return nil, fmt.Errorf("failed to get last analysis time: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.LastTranscriptDate,
		`SELECT MAX(date) FROM transcripts`); err != nil {
		return nil, fmt.Errorf("failed to get last transcript date: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.LastOuraDate,
		`SELECT MAX(date) FROM oura_data`); err != nil {
		return nil, fmt.Errorf("failed to get last oura date: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.EarliestDate, `
        SELECT MIN(d) FROM (
            SELECT MIN(date) AS d FROM transcripts
            UNION ALL SELECT MIN(date) FROM oura_data
            UNION ALL SELECT MIN(date) FROM daily_checklist
        ) WHERE d IS NOT NULL`); err != nil {
		return nil, fmt.Errorf("failed to get earliest date: %w", err)
	}

	return stats, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `ANALYZE`); err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}
	s.logger.InfoContext(ctx, "SQL maintenance completed")
	return nil
}
