package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/edgard/healthbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStore_Transcripts(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, tr := range []*database.Transcript{
		{Date: "2025-06-02", RawText: "second day"},
		{Date: "2025-06-01", RawText: "first day, morning"},
		{Date: "2025-06-01", RawText: "first day, evening", DurationS: sql.NullFloat64{Float64: 12.5, Valid: true}},
	} {
		if err := store.SaveTranscript(ctx, tr); err != nil {
			t.Fatalf("SaveTranscript(%s): %v", tr.Date, err)
		}
		if tr.ID == 0 {
			t.Error("SaveTranscript should backfill the ID")
		}
	}

	got, err := store.ListTranscripts(ctx, "2025-06-01", "2025-06-01")
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transcripts for the day, got %d", len(got))
	}
	if got[0].RawText != "first day, morning" {
		t.Errorf("insertion order not preserved: %q", got[0].RawText)
	}

	all, err := store.ListTranscripts(ctx, "2025-01-01", "2025-12-31")
	if err != nil {
		t.Fatalf("ListTranscripts(all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 transcripts total, got %d", len(all))
	}
	if all[len(all)-1].Date != "2025-06-02" {
		t.Errorf("expected date ordering, last = %q", all[len(all)-1].Date)
	}

	if err := store.SaveTranscript(ctx, &database.Transcript{Date: "2025-06-01"}); err == nil {
		t.Error("transcript without text should be rejected")
	}
}

func TestStore_OuraUpsertReplaces(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	day := &database.OuraDay{
		Date:           "2025-06-01",
		AverageHRV:     sql.NullInt64{Int64: 45, Valid: true},
		ReadinessScore: sql.NullInt64{Int64: 70, Valid: true},
	}
	if err := store.UpsertOuraDay(ctx, day); err != nil {
		t.Fatalf("UpsertOuraDay: %v", err)
	}

	// Second write for the same date replaces the row instead of duplicating
	// or merging it.
	if err := store.UpsertOuraDay(ctx, &database.OuraDay{
		Date:       "2025-06-01",
		AverageHRV: sql.NullInt64{Int64: 52, Valid: true},
	}); err != nil {
		t.Fatalf("UpsertOuraDay(replace): %v", err)
	}

	got, err := store.ListOuraDays(ctx, "2025-06-01", "2025-06-01")
	if err != nil {
		t.Fatalf("ListOuraDays: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(got))
	}
	if got[0].AverageHRV.Int64 != 52 {
		t.Errorf("hrv = %d, want the replacement value", got[0].AverageHRV.Int64)
	}
	if got[0].ReadinessScore.Valid {
		t.Error("readiness from the first write should be gone after replace")
	}
}

func TestStore_ChecklistRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	absent, err := store.GetChecklist(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("GetChecklist(absent): %v", err)
	}
	if absent != nil {
		t.Fatal("absent day should return nil, nil")
	}

	entry := &database.ChecklistEntry{
		Date:              "2025-06-01",
		ElectronicsOff:    sql.NullBool{Bool: true, Valid: true},
		NasalRinse:        sql.NullBool{Valid: false},
		Meditation:        sql.NullBool{Bool: true, Valid: true},
		MeditationMinutes: sql.NullInt64{Int64: 15, Valid: true},
		TrainingType:      sql.NullString{String: "strength", Valid: true},
		Hydration:         sql.NullString{String: "good", Valid: true},
	}
	if err := entry.SetOtherNotes(map[string]string{"nasal_rinse": "only one side"}); err != nil {
		t.Fatalf("SetOtherNotes: %v", err)
	}
	if err := store.UpsertChecklist(ctx, entry); err != nil {
		t.Fatalf("UpsertChecklist: %v", err)
	}

	got, err := store.GetChecklist(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if got == nil {
		t.Fatal("expected a row")
	}
	if !got.ElectronicsOff.Valid || !got.ElectronicsOff.Bool {
		t.Error("electronics_off should round-trip as true")
	}
	if got.NasalRinse.Valid {
		t.Error("nasal_rinse should round-trip as NULL")
	}
	notes, err := got.OtherNotesMap()
	if err != nil {
		t.Fatalf("OtherNotesMap: %v", err)
	}
	if notes["nasal_rinse"] != "only one side" {
		t.Errorf("notes = %v", notes)
	}

	// Resubmission replaces the whole row.
	second := &database.ChecklistEntry{
		Date:       "2025-06-01",
		NasalRinse: sql.NullBool{Bool: false, Valid: true},
		Meditation: sql.NullBool{Bool: false, Valid: true},
	}
	if err := store.UpsertChecklist(ctx, second); err != nil {
		t.Fatalf("UpsertChecklist(replace): %v", err)
	}
	got, err = store.GetChecklist(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("GetChecklist(after replace): %v", err)
	}
	if got.ElectronicsOff.Valid {
		t.Error("replace must drop fields from the earlier submission")
	}
	if got.OtherNotes.Valid {
		t.Error("replace must drop earlier notes")
	}

	list, err := store.ListChecklists(ctx, "2025-01-01", "2025-12-31")
	if err != nil {
		t.Fatalf("ListChecklists: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 checklist row, got %d", len(list))
	}
}

func TestStore_MealLog(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetLastMealTime(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("GetLastMealTime(absent): %v", err)
	}
	if got != "" {
		t.Errorf("absent day should return empty, got %q", got)
	}

	if err := store.UpsertLastMealTime(ctx, "2025-06-01", "18:30"); err != nil {
		t.Fatalf("UpsertLastMealTime: %v", err)
	}
	if err := store.UpsertLastMealTime(ctx, "2025-06-01", "21:10"); err != nil {
		t.Fatalf("UpsertLastMealTime(replace): %v", err)
	}

	got, err = store.GetLastMealTime(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("GetLastMealTime: %v", err)
	}
	if got != "21:10" {
		t.Errorf("meal time = %q, want the later entry", got)
	}

	if err := store.UpsertLastMealTime(ctx, "2025-06-01", ""); err == nil {
		t.Error("empty time should be rejected")
	}
}

func TestStore_Settings(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if v, err := store.GetSetting(ctx, "missing"); err != nil || v != "" {
		t.Errorf("GetSetting(missing) = %q, %v", v, err)
	}
	if err := store.SetSetting(ctx, "last_backfill", "2025-06-01"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := store.SetSetting(ctx, "last_backfill", "2025-06-15"); err != nil {
		t.Fatalf("SetSetting(replace): %v", err)
	}
	if v, err := store.GetSetting(ctx, "last_backfill"); err != nil || v != "2025-06-15" {
		t.Errorf("GetSetting = %q, %v", v, err)
	}
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	empty, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats(empty): %v", err)
	}
	if empty.TranscriptCount != 0 || empty.OuraCount != 0 || empty.ChecklistCount != 0 {
		t.Errorf("empty counts = %+v", empty)
	}
	if empty.EarliestDate.Valid {
		t.Error("earliest date should be NULL for an empty database")
	}

	if err := store.SaveTranscript(ctx, &database.Transcript{Date: "2025-06-03", RawText: "note"}); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}
	if err := store.UpsertOuraDay(ctx, &database.OuraDay{Date: "2025-05-28"}); err != nil {
		t.Fatalf("UpsertOuraDay: %v", err)
	}
	if err := store.SaveAnalysis(ctx, &database.Analysis{DaysBack: 14, Prompt: "p", Response: "r", Model: "m"}); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TranscriptCount != 1 || stats.OuraCount != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if !stats.LastAnalysisAt.Valid {
		t.Error("last analysis time should be set")
	}
	if stats.EarliestDate.String != "2025-05-28" {
		t.Errorf("earliest date = %q", stats.EarliestDate.String)
	}
}

func TestStore_SQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance: %v", err)
	}
}
