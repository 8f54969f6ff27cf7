package checklist_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/edgard/healthbot/internal/checklist"
)

type fakeStore struct {
	saved   []*checklist.Answer
	failErr error
}

func (f *fakeStore) SaveAnswer(_ context.Context, a *checklist.Answer) error {
	if f.failErr != nil {
		return f.failErr
	}
	cp := *a
	f.saved = append(f.saved, &cp)
	return nil
}

type fakeMealLog struct {
	times   map[string]string
	failErr error
}

func (f *fakeMealLog) LastMealTime(_ context.Context, day string) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	return f.times[day], nil
}

func newTestEngine(store *fakeStore, meals *fakeMealLog) *checklist.Engine {
	if store == nil {
		store = &fakeStore{}
	}
	if meals == nil {
		meals = &fakeMealLog{}
	}
	return checklist.NewEngine(store, meals, nil)
}

// drive feeds a sequence of inputs and returns the last reply and done flag,
// failing the test on any engine error.
func drive(t *testing.T, e *checklist.Engine, s *checklist.Session, inputs ...checklist.Input) (checklist.Reply, bool) {
	t.Helper()

	var (
		reply checklist.Reply
		done  bool
		err   error
	)
	for i, in := range inputs {
		reply, done, err = e.Advance(context.Background(), s, in)
		if err != nil {
			t.Fatalf("Advance(input %d): unexpected error: %v", i, err)
		}
	}
	return reply, done
}

// questionAfterAck strips the acknowledgment line from a reply, leaving the
// question it moved on to.
func questionAfterAck(t *testing.T, text string) string {
	t.Helper()

	_, question, ok := strings.Cut(text, "\n\n")
	if !ok {
		t.Fatalf("reply has no question after the acknowledgment: %q", text)
	}
	return question
}

func yes() checklist.Input  { return checklist.ChoiceInput(checklist.TokenYes) }
func no() checklist.Input   { return checklist.ChoiceInput(checklist.TokenNo) }
func none() checklist.Input { return checklist.ChoiceInput(checklist.TokenNone) }

func TestEngine_FullRun(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	e := newTestEngine(store, nil)

	s, first := e.Start("2025-06-01")
	if !strings.Contains(first.Text, "2025-06-01") {
		t.Errorf("first prompt should mention the day, got %q", first.Text)
	}
	if len(first.Options) == 0 {
		t.Error("first prompt should offer choices")
	}

	reply, done := drive(t, e, s,
		yes(), no(), yes(), no(), yes(), no(), yes(), // seven booleans
		checklist.ChoiceInput(checklist.TokenStrength),
		checklist.TextInput("19:30"),
		checklist.TextInput("14:00"),
		checklist.ChoiceInput(checklist.TokenGood),
		checklist.TextInput("magnesium, omega-3"),
		yes(),
		checklist.TextInput("15"),
	)

	if !done {
		t.Fatal("conversation should be done after meditation minutes")
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(store.saved))
	}
	if s.Active() {
		t.Error("session should be closed after save")
	}

	a := store.saved[0]
	if a.Day != "2025-06-01" {
		t.Errorf("saved day = %q", a.Day)
	}
	if a.ElectronicsOff == nil || !*a.ElectronicsOff {
		t.Error("electronics_off should be true")
	}
	if a.NasalRinse == nil || *a.NasalRinse {
		t.Error("nasal_rinse should be false")
	}
	if a.TrainingType == nil || *a.TrainingType != checklist.TokenStrength {
		t.Errorf("training = %v", a.TrainingType)
	}
	if a.LastMealTime == nil || *a.LastMealTime != "19:30" {
		t.Errorf("last meal = %v", a.LastMealTime)
	}
	if a.CaffeineCutoff == nil || *a.CaffeineCutoff != "14:00" {
		t.Errorf("caffeine = %v", a.CaffeineCutoff)
	}
	if a.Hydration != checklist.TokenGood {
		t.Errorf("hydration = %q", a.Hydration)
	}
	if a.Supplements == nil || *a.Supplements != "magnesium, omega-3" {
		t.Errorf("supplements = %v", a.Supplements)
	}
	if a.MeditationMinutes == nil || *a.MeditationMinutes != 15 {
		t.Errorf("meditation minutes = %v", a.MeditationMinutes)
	}

	for _, want := range []string{
		"Checklist saved for 2025-06-01",
		"Training: strength",
		"Last meal: 19:30",
		"Meditation: Yes (15 min)",
	} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("summary missing %q:\n%s", want, reply.Text)
		}
	}
}

func TestEngine_AllDeclinedRun(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	e := newTestEngine(store, nil)
	s, _ := e.Start("2025-06-01")

	_, done := drive(t, e, s,
		no(), no(), no(), no(), no(), no(), no(),
		none(),
		checklist.ChoiceInput(checklist.TokenSkip),
		checklist.TextInput("22:30"),
		checklist.ChoiceInput(checklist.TokenPoor),
		checklist.TextInput("Magnesium"),
		yes(),
		checklist.TextInput("10"),
	)
	if !done {
		t.Fatal("conversation should complete")
	}

	a := store.saved[0]
	for _, key := range []string{
		checklist.KeyElectronicsOff,
		checklist.KeyNasalRinse,
		checklist.KeyNasalStrips,
		checklist.KeyMouthTaping,
		checklist.KeySauna,
		checklist.KeyDiaphragmWork,
		checklist.KeyHeavyScreenDay,
	} {
		if b := a.Bool(key); b == nil || *b {
			t.Errorf("%s should be false, got %v", key, b)
		}
	}
	if a.TrainingType != nil {
		t.Errorf("training should be nil, got %v", a.TrainingType)
	}
	if a.LastMealTime != nil {
		t.Errorf("skipped meal time should be nil, got %v", a.LastMealTime)
	}
	if a.CaffeineCutoff == nil || *a.CaffeineCutoff != "22:30" {
		t.Errorf("caffeine = %v", a.CaffeineCutoff)
	}
	if a.Hydration != checklist.TokenPoor {
		t.Errorf("hydration = %q", a.Hydration)
	}
	if a.Supplements == nil || *a.Supplements != "Magnesium" {
		t.Errorf("supplements = %v", a.Supplements)
	}
	if a.Meditation == nil || !*a.Meditation {
		t.Error("meditation should be true")
	}
	if a.MeditationMinutes == nil || *a.MeditationMinutes != 10 {
		t.Errorf("minutes = %v", a.MeditationMinutes)
	}
	if len(a.OtherNotes) != 0 {
		t.Errorf("notes should be empty, got %v", a.OtherNotes)
	}
}

func TestEngine_OverrideNote(t *testing.T) {
	t.Parallel()

	// Every boolean question must support the Other detour: the note lands
	// under the question's key, the boolean stays nil, and the conversation
	// resumes at the question that would have followed a direct answer.
	keys := []string{
		checklist.KeyElectronicsOff,
		checklist.KeyNasalRinse,
		checklist.KeyNasalStrips,
		checklist.KeyMouthTaping,
		checklist.KeySauna,
		checklist.KeyDiaphragmWork,
		checklist.KeyHeavyScreenDay,
	}

	for i, key := range keys {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			e := newTestEngine(store, nil)
			s, _ := e.Start("2025-06-01")

			var prefix []checklist.Input
			for range i {
				prefix = append(prefix, yes())
			}
			drive(t, e, s, prefix...)
			resumed, _ := drive(t, e, s,
				checklist.ChoiceInput(checklist.TokenOther),
				checklist.TextInput("partially"),
			)

			// The detour must rejoin the main sequence exactly where a
			// direct answer would have landed: same question, same choices.
			control, _ := e.Start("2025-06-01")
			drive(t, e, control, prefix...)
			direct, _ := drive(t, e, control, yes())
			if got, want := questionAfterAck(t, resumed.Text), questionAfterAck(t, direct.Text); got != want {
				t.Errorf("resumed prompt = %q, want the direct-answer prompt %q", got, want)
			}
			if !reflect.DeepEqual(resumed.Options, direct.Options) {
				t.Errorf("resumed options = %v, want %v", resumed.Options, direct.Options)
			}

			var inputs []checklist.Input
			for range len(keys) - i - 1 {
				inputs = append(inputs, yes())
			}
			inputs = append(inputs,
				none(),                       // training
				checklist.TextInput("20:00"), // last meal
				checklist.TextInput("13:00"), // caffeine
				checklist.ChoiceInput(checklist.TokenPoor),
				none(), // supplements
				no(),   // meditation
			)

			reply, done := drive(t, e, s, inputs...)
			if !done {
				t.Fatal("conversation should complete")
			}

			a := store.saved[0]
			if a.Bool(key) != nil {
				t.Errorf("boolean for %s should be nil after override", key)
			}
			if a.OtherNotes[key] != "partially" {
				t.Errorf("note for %s = %q", key, a.OtherNotes[key])
			}
			if len(a.OtherNotes) != 1 {
				t.Errorf("expected exactly one note, got %v", a.OtherNotes)
			}
			if !strings.Contains(reply.Text, "Other: partially") {
				t.Errorf("summary should show the note:\n%s", reply.Text)
			}
		})
	}
}

func TestEngine_MealLogSkipsLastMealQuestion(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	meals := &fakeMealLog{times: map[string]string{"2025-06-01": "18:45"}}
	e := newTestEngine(store, meals)
	s, _ := e.Start("2025-06-01")

	reply, _ := drive(t, e, s,
		yes(), yes(), yes(), yes(), yes(), yes(), yes(),
		none(), // training; meal question should be skipped here
	)

	if !strings.Contains(reply.Text, "18:45") {
		t.Errorf("reply should mention the logged meal time, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "caffeine") {
		t.Errorf("should have skipped ahead to the caffeine question, got %q", reply.Text)
	}

	_, done := drive(t, e, s,
		checklist.TextInput("12:00"),
		checklist.ChoiceInput(checklist.TokenGood),
		none(),
		no(),
	)
	if !done {
		t.Fatal("conversation should complete")
	}
	if got := store.saved[0].LastMealTime; got == nil || *got != "18:45" {
		t.Errorf("last meal should come from the log, got %v", got)
	}
}

func TestEngine_MealLogFailureAsksQuestion(t *testing.T) {
	t.Parallel()

	meals := &fakeMealLog{failErr: errors.New("db locked")}
	e := newTestEngine(nil, meals)
	s, _ := e.Start("2025-06-01")

	reply, _ := drive(t, e, s,
		yes(), yes(), yes(), yes(), yes(), yes(), yes(),
		none(),
	)
	if !strings.Contains(reply.Text, "last meal") {
		t.Errorf("lookup failure should fall back to asking, got %q", reply.Text)
	}
}

func TestEngine_TrainingFreeText(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	e := newTestEngine(store, nil)
	s, _ := e.Start("2025-06-01")

	_, done := drive(t, e, s,
		yes(), yes(), yes(), yes(), yes(), yes(), yes(),
		checklist.ChoiceInput(checklist.TokenOther),
		checklist.TextInput("climbing"),
		checklist.ChoiceInput(checklist.TokenSkip),
		checklist.ChoiceInput(checklist.TokenSkip),
		checklist.ChoiceInput(checklist.TokenGood),
		none(),
		no(),
	)
	if !done {
		t.Fatal("conversation should complete")
	}

	a := store.saved[0]
	if a.TrainingType == nil || *a.TrainingType != "climbing" {
		t.Errorf("training = %v", a.TrainingType)
	}
	if a.LastMealTime != nil {
		t.Errorf("skipped meal time should be nil, got %v", a.LastMealTime)
	}
	if a.CaffeineCutoff != nil {
		t.Errorf("skipped caffeine should be nil, got %v", a.CaffeineCutoff)
	}
}

func TestEngine_MeditationMinutesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"not a number", "a lot"},
		{"zero", "0"},
		{"negative", "-5"},
		{"empty", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			e := newTestEngine(store, nil)
			s, _ := e.Start("2025-06-01")

			reply, done := drive(t, e, s,
				yes(), yes(), yes(), yes(), yes(), yes(), yes(),
				none(),
				checklist.TextInput("20:00"),
				checklist.TextInput("13:00"),
				checklist.ChoiceInput(checklist.TokenGood),
				none(),
				yes(),
				checklist.TextInput(tt.input),
			)
			if done {
				t.Fatal("invalid minutes should not complete the conversation")
			}
			if !strings.Contains(reply.Text, "number") {
				t.Errorf("expected a retry prompt, got %q", reply.Text)
			}
			if len(store.saved) != 0 {
				t.Error("nothing should be saved yet")
			}

			// A valid value on the retry finishes normally.
			_, done = drive(t, e, s, checklist.TextInput("10"))
			if !done {
				t.Fatal("valid retry should complete the conversation")
			}
			if got := store.saved[0].MeditationMinutes; got == nil || *got != 10 {
				t.Errorf("minutes = %v", got)
			}
		})
	}
}

func TestEngine_SaveFailureKeepsSessionResumable(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failErr: errors.New("disk full")}
	e := newTestEngine(store, nil)
	s, _ := e.Start("2025-06-01")

	drive(t, e, s,
		yes(), yes(), yes(), yes(), yes(), yes(), yes(),
		none(),
		checklist.TextInput("20:00"),
		checklist.TextInput("13:00"),
		checklist.ChoiceInput(checklist.TokenGood),
		none(),
	)

	_, done, err := e.Advance(context.Background(), s, no())
	if err == nil {
		t.Fatal("expected the save error to surface")
	}
	if done {
		t.Error("failed save must not close the session")
	}
	if !s.Active() {
		t.Error("session should still accept input after a failed save")
	}

	// Clearing the fault and repeating the same input succeeds.
	store.failErr = nil
	_, done, err = e.Advance(context.Background(), s, no())
	if err != nil {
		t.Fatalf("retry after clearing the fault: %v", err)
	}
	if !done {
		t.Error("retry should complete the conversation")
	}
	if len(store.saved) != 1 {
		t.Errorf("expected exactly one saved record, got %d", len(store.saved))
	}
}

func TestEngine_UnexpectedInputReprompts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(nil, nil)
	s, first := e.Start("2025-06-01")

	// Free text during a button question repeats the question.
	reply, done := drive(t, e, s, checklist.TextInput("hello?"))
	if done {
		t.Fatal("should not be done")
	}
	if !strings.Contains(first.Text, reply.Text) {
		t.Errorf("expected the same question again, got %q", reply.Text)
	}

	// An unknown token does the same.
	reply, _ = drive(t, e, s, checklist.ChoiceInput("bogus"))
	if !strings.Contains(first.Text, reply.Text) {
		t.Errorf("expected the same question again, got %q", reply.Text)
	}

	// The answer still lands once a valid input arrives.
	drive(t, e, s, yes())
	if s.Answer.ElectronicsOff == nil || !*s.Answer.ElectronicsOff {
		t.Error("valid answer after reprompts should be recorded")
	}
}

func TestEngine_Cancel(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	e := newTestEngine(store, nil)
	s, _ := e.Start("2025-06-01")

	drive(t, e, s, yes(), no())
	reply := e.Cancel(s)
	if !strings.Contains(reply.Text, "cancelled") {
		t.Errorf("cancel reply = %q", reply.Text)
	}
	if s.Active() {
		t.Error("cancelled session should be closed")
	}
	if len(store.saved) != 0 {
		t.Error("cancel must not persist anything")
	}

	if _, _, err := e.Advance(context.Background(), s, yes()); !errors.Is(err, checklist.ErrSessionClosed) {
		t.Errorf("advance after cancel = %v, want ErrSessionClosed", err)
	}
}

func TestEngine_MeditationNoSkipsMinutes(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	e := newTestEngine(store, nil)
	s, _ := e.Start("2025-06-01")

	reply, done := drive(t, e, s,
		yes(), yes(), yes(), yes(), yes(), yes(), yes(),
		none(),
		checklist.TextInput("20:00"),
		checklist.TextInput("13:00"),
		checklist.ChoiceInput(checklist.TokenGood),
		none(),
		no(),
	)
	if !done {
		t.Fatal("answering no to meditation should finish immediately")
	}
	a := store.saved[0]
	if a.Meditation == nil || *a.Meditation {
		t.Error("meditation should be false")
	}
	if a.MeditationMinutes != nil {
		t.Errorf("minutes should be nil, got %v", a.MeditationMinutes)
	}
	if !strings.Contains(reply.Text, "Meditation: No") {
		t.Errorf("summary should show meditation no:\n%s", reply.Text)
	}
}
