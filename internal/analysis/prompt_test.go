package analysis_test

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/edgard/healthbot/internal/analysis"
	"github.com/edgard/healthbot/internal/database"
)

func TestBuildPrompt_AllSections(t *testing.T) {
	t.Parallel()

	transcripts := []database.Transcript{
		{Date: "2025-06-01", RawText: "Heavy squats, felt strong."},
		{Date: "2025-06-01", RawText: "Late dinner, busy evening."},
		{Date: "2025-06-02", RawText: "Easy run in the morning."},
	}
	ouraDays := []database.OuraDay{
		{
			Date:            "2025-06-01",
			LowestHeartRate: sql.NullInt64{Int64: 47, Valid: true},
			AverageHRV:      sql.NullInt64{Int64: 52, Valid: true},
			TotalSleepS:     sql.NullInt64{Int64: 27000, Valid: true},
			DeepSleepS:      sql.NullInt64{Int64: 5400, Valid: true},
			SleepEfficiency: sql.NullInt64{Int64: 91, Valid: true},
			ReadinessScore:  sql.NullInt64{Int64: 80, Valid: true},
			Steps:           sql.NullInt64{Int64: 9800, Valid: true},
		},
	}

	entry := database.ChecklistEntry{
		Date:              "2025-06-01",
		ElectronicsOff:    sql.NullBool{Bool: true, Valid: true},
		NasalStrips:       sql.NullBool{Bool: false, Valid: true},
		Meditation:        sql.NullBool{Bool: true, Valid: true},
		MeditationMinutes: sql.NullInt64{Int64: 12, Valid: true},
		TrainingType:      sql.NullString{String: "strength", Valid: true},
		LastMealTime:      sql.NullString{String: "21:15", Valid: true},
		Hydration:         sql.NullString{String: "good", Valid: true},
	}
	if err := entry.SetOtherNotes(map[string]string{"sauna": "only 10 minutes"}); err != nil {
		t.Fatalf("SetOtherNotes: %v", err)
	}

	prompt := analysis.BuildPrompt(transcripts, ouraDays, []database.ChecklistEntry{entry}, 14)

	for _, want := range []string{
		"covering the last 14 days",
		"## Voice Note Transcripts",
		"### 2025-06-01",
		"Heavy squats, felt strong.",
		"### 2025-06-02",
		"## Oura Ring Biometric Data",
		"Resting HR: 47 bpm",
		"Sleep: 7.5h (Deep: 1.5h, REM: ?, Light: ?)",
		"Readiness: 80",
		"## Daily Checklist",
		"Electronics off 1h before bed: Yes",
		"Nasal strips: No",
		"Sauna: Other: only 10 minutes",
		"Training: strength",
		"Last meal: 21:15",
		"Hydration: Good",
		"Meditation/breathwork: Yes (12 min)",
		"## Your Task",
		"RHR Correlations",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Transcripts for the same day share one date heading.
	if strings.Count(prompt, "### 2025-06-01") != 3 {
		// one in transcripts, one in oura, one in checklist
		t.Errorf("unexpected number of 2025-06-01 headings:\n%s", prompt)
	}
}

func TestBuildPrompt_EmptySections(t *testing.T) {
	t.Parallel()

	prompt := analysis.BuildPrompt(nil, nil, nil, 30)

	for _, want := range []string{
		"_No voice notes recorded in this period._",
		"_No Oura data recorded in this period._",
		"_No checklist data recorded in this period._",
		"## Your Task",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_MissingBiometricsRenderPlaceholders(t *testing.T) {
	t.Parallel()

	prompt := analysis.BuildPrompt(nil, []database.OuraDay{{Date: "2025-06-03"}}, nil, 7)

	for _, want := range []string{
		"Resting HR: N/A bpm",
		"Sleep: N/A (Deep: ?, REM: ?, Light: ?)",
		"Activity: N/A | Steps: N/A",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_UnansweredChecklistFieldsRenderDashes(t *testing.T) {
	t.Parallel()

	prompt := analysis.BuildPrompt(nil, nil, []database.ChecklistEntry{{Date: "2025-06-04"}}, 7)

	for _, want := range []string{
		"Mouth taping: -",
		"Training: None",
		"Last caffeine: -",
		"Supplements: None",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
