package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edgard/healthbot/internal/checklist"
	"github.com/edgard/healthbot/internal/database"
)

// checklistStore adapts the database layer to the collaborator interfaces
// the checklist engine expects.
type checklistStore struct {
	store database.Store
}

// NewChecklistStore wraps a database.Store for the checklist engine.
func NewChecklistStore(store database.Store) interface {
	checklist.AnswerStore
	checklist.MealTimeLog
} {
	return &checklistStore{store: store}
}

func (c *checklistStore) SaveAnswer(ctx context.Context, a *checklist.Answer) error {
	entry := &database.ChecklistEntry{
		Date:           a.Day,
		ElectronicsOff: nullBool(a.ElectronicsOff),
		NasalRinse:     nullBool(a.NasalRinse),
		NasalStrips:    nullBool(a.NasalStrips),
		MouthTaping:    nullBool(a.MouthTaping),
		Sauna:          nullBool(a.Sauna),
		DiaphragmWork:  nullBool(a.DiaphragmWork),
		HeavyScreenDay: nullBool(a.HeavyScreenDay),
		Meditation:     nullBool(a.Meditation),
		TrainingType:   nullString(a.TrainingType),
		LastMealTime:   nullString(a.LastMealTime),
		CaffeineCutoff: nullString(a.CaffeineCutoff),
		Supplements:    nullString(a.Supplements),
	}
	if a.MeditationMinutes != nil {
		entry.MeditationMinutes = sql.NullInt64{Int64: int64(*a.MeditationMinutes), Valid: true}
	}
	if a.Hydration != "" {
		entry.Hydration = sql.NullString{String: a.Hydration, Valid: true}
	}
	if err := entry.SetOtherNotes(a.OtherNotes); err != nil {
		return fmt.Errorf("failed to encode checklist notes: %w", err)
	}

	return c.store.UpsertChecklist(ctx, entry)
}

func (c *checklistStore) LastMealTime(ctx context.Context, day string) (string, error) {
	return c.store.GetLastMealTime(ctx, day)
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
