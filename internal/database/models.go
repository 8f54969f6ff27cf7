package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Transcript is one transcribed voice note attributed to a calendar day.
// A day may have several transcripts.
type Transcript struct {
	ID        int64           `db:"id"`
	CreatedAt string          `db:"created_at"`
	Date      string          `db:"date"`
	RawText   string          `db:"raw_text"`
	DurationS sql.NullFloat64 `db:"duration_s"`
	FileID    sql.NullString  `db:"file_id"`
}

// OuraDay holds one day of ring biometrics. Scalar fields are extracted for
// querying; the raw API payloads are kept verbatim for reprocessing.
type OuraDay struct {
	ID               int64           `db:"id"`
	Date             string          `db:"date"`
	FetchedAt        string          `db:"fetched_at"`
	LowestHeartRate  sql.NullInt64   `db:"lowest_heart_rate"`
	AverageHeartRate sql.NullInt64   `db:"average_heart_rate"`
	AverageHRV       sql.NullInt64   `db:"average_hrv"`
	TotalSleepS      sql.NullInt64   `db:"total_sleep_s"`
	RemSleepS        sql.NullInt64   `db:"rem_sleep_s"`
	DeepSleepS       sql.NullInt64   `db:"deep_sleep_s"`
	LightSleepS      sql.NullInt64   `db:"light_sleep_s"`
	SleepEfficiency  sql.NullInt64   `db:"sleep_efficiency"`
	BreathingRate    sql.NullFloat64 `db:"breathing_rate"`
	ReadinessScore   sql.NullInt64   `db:"readiness_score"`
	ActivityScore    sql.NullInt64   `db:"activity_score"`
	Steps            sql.NullInt64   `db:"steps"`
	RawSleepJSON     sql.NullString  `db:"raw_sleep_json"`
	RawReadinessJSON sql.NullString  `db:"raw_readiness_json"`
	RawActivityJSON  sql.NullString  `db:"raw_activity_json"`
}

// Analysis records one LLM correlation report, including the exact prompt
// that produced it.
type Analysis struct {
	ID        int64  `db:"id"`
	CreatedAt string `db:"created_at"`
	DaysBack  int    `db:"days_back"`
	Prompt    string `db:"prompt"`
	Response  string `db:"response"`
	Model     string `db:"model"`
}

// ChecklistEntry is the persisted form of one completed daily checklist.
// Boolean columns are tri-state: true, false, or NULL when the user answered
// the question with a free-text note instead (stored in OtherNotes JSON).
type ChecklistEntry struct {
	ID                int64          `db:"id"`
	Date              string         `db:"date"`
	CreatedAt         string         `db:"created_at"`
	ElectronicsOff    sql.NullBool   `db:"electronics_off"`
	NasalRinse        sql.NullBool   `db:"nasal_rinse"`
	NasalStrips       sql.NullBool   `db:"nasal_strips"`
	MouthTaping       sql.NullBool   `db:"mouth_taping"`
	Sauna             sql.NullBool   `db:"sauna"`
	DiaphragmWork     sql.NullBool   `db:"diaphragm_work"`
	HeavyScreenDay    sql.NullBool   `db:"heavy_screen_day"`
	Meditation        sql.NullBool   `db:"meditation"`
	MeditationMinutes sql.NullInt64  `db:"meditation_minutes"`
	TrainingType      sql.NullString `db:"training_type"`
	LastMealTime      sql.NullString `db:"last_meal_time"`
	CaffeineCutoff    sql.NullString `db:"caffeine_cutoff"`
	Hydration         sql.NullString `db:"hydration"`
	Supplements       sql.NullString `db:"supplements"`
	OtherNotes        sql.NullString `db:"other_notes"`
}

// OtherNotesMap decodes the other_notes JSON column. Returns an empty map
// when the column is NULL.
func (e *ChecklistEntry) OtherNotesMap() (map[string]string, error) {
	if !e.OtherNotes.Valid || e.OtherNotes.String == "" {
		return map[string]string{}, nil
	}
	notes := map[string]string{}
	if err := json.Unmarshal([]byte(e.OtherNotes.String), &notes); err != nil {
		return nil, fmt.Errorf("failed to decode other_notes for %s: %w", e.Date, err)
	}
	return notes, nil
}

// SetOtherNotes encodes the map into the other_notes column. An empty map
// stores NULL, matching the absence of override answers.
func (e *ChecklistEntry) SetOtherNotes(notes map[string]string) error {
	if len(notes) == 0 {
		e.OtherNotes = sql.NullString{}
		return nil
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode other_notes for %s: %w", e.Date, err)
	}
	e.OtherNotes = sql.NullString{String: string(raw), Valid: true}
	return nil
}

// MealLog is the side log of the last meal time for a day, entered outside
// the checklist conversation.
type MealLog struct {
	ID        int64  `db:"id"`
	Date      string `db:"date"`
	Time      string `db:"time"`
	CreatedAt string `db:"created_at"`
}

// Stats summarizes how much data the bot has collected.
type Stats struct {
	TranscriptCount    int64
	OuraCount          int64
	ChecklistCount     int64
	LastAnalysisAt     sql.NullString
	LastTranscriptDate sql.NullString
	LastOuraDate       sql.NullString
	EarliestDate       sql.NullString
}
