// Package checklist implements the daily checklist conversation engine: a
// fixed sequence of yes/no, multiple-choice, and free-text questions that
// accumulates answers into a per-day record, then persists and summarizes
// it. The engine is transport-agnostic; the host delivers its Reply values
// and feeds user actions back in as Input values.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrSessionClosed is returned when Advance is called on a terminal session.
var ErrSessionClosed = errors.New("checklist: session is closed")

// AnswerStore persists completed checklist records. Saving the same day
// twice replaces the earlier record.
type AnswerStore interface {
	SaveAnswer(ctx context.Context, a *Answer) error
}

// MealTimeLog is the side log consulted after the training question: when a
// meal time was already logged for the day, the last-meal question is
// skipped. Implementations return "" when no entry exists.
type MealTimeLog interface {
	LastMealTime(ctx context.Context, day string) (string, error)
}

// Engine drives checklist conversations. It is stateless across sessions;
// all per-conversation state lives in the Session.
type Engine struct {
	store AnswerStore
	meals MealTimeLog
	log   *slog.Logger
}

// NewEngine creates a conversation engine with its collaborators injected.
func NewEngine(store AnswerStore, meals MealTimeLog, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store: store,
		meals: meals,
		log:   log.With("component", "checklist"),
	}
}

// Start begins a new session for the given day and returns the first
// prompt.
func (e *Engine) Start(day string) (*Session, Reply) {
	s := &Session{
		State:  StateElectronicsOff,
		Day:    day,
		Answer: newAnswer(day),
	}
	first := statePrompt(StateElectronicsOff)
	first.Text = fmt.Sprintf("Daily checklist for %s\n\nLet's go through it.\n\n%s", day, first.Text)
	return s, first
}

// Advance feeds one user input into the session and returns the outgoing
// reply. done is true when the reply is terminal (the summary after a
// successful save). A non-nil error means the save failed; the session is
// left as-is so the same input can be retried.
//
// Inputs that don't fit the current state (wrong token, free text where
// none is accepted) re-emit the current prompt without changing anything.
func (e *Engine) Advance(ctx context.Context, s *Session, in Input) (reply Reply, done bool, err error) {
	if !s.Active() {
		return Reply{}, true, ErrSessionClosed
	}

	switch {
	case s.State <= StateHeavyScreenDay:
		return e.advanceBool(s, in), false, nil
	case s.State == StateOverrideText:
		return e.advanceOverride(s, in), false, nil
	case s.State == StateTraining:
		return e.advanceTraining(ctx, s, in), false, nil
	case s.State == StateLastMealTime:
		return e.advanceTimeAnswer(s, in, func(v *string) { s.Answer.LastMealTime = v }, StateCaffeineCutoff), false, nil
	case s.State == StateCaffeineCutoff:
		return e.advanceTimeAnswer(s, in, func(v *string) { s.Answer.CaffeineCutoff = v }, StateHydration), false, nil
	case s.State == StateHydration:
		return e.advanceHydration(s, in), false, nil
	case s.State == StateSupplements:
		return e.advanceSupplements(s, in), false, nil
	case s.State == StateMeditation:
		return e.advanceMeditation(ctx, s, in)
	case s.State == StateMeditationMinutes:
		return e.advanceMeditationMinutes(ctx, s, in)
	}

	return e.reprompt(s), false, nil
}

// Cancel discards the session without persisting anything.
func (e *Engine) Cancel(s *Session) Reply {
	if s != nil {
		s.State = StateDone
		s.override = nil
	}
	return Reply{Text: "Checklist cancelled."}
}

// advanceBool handles the seven yes/no/other questions through the shared
// question table.
func (e *Engine) advanceBool(s *Session, in Input) Reply {
	q := boolQuestions[s.State]
	if in.isText {
		return e.reprompt(s)
	}

	switch in.choice {
	case TokenYes, TokenNo:
		v := in.choice == TokenYes
		s.Answer.setBool(q.key, &v)
		ack := "No, got it."
		if v {
			ack = "Yes, got it."
		}
		return advanceTo(s, s.State+1, ack)
	case TokenOther:
		// Park the primary state and detour into the shared override
		// question; the next free text resumes exactly where a direct
		// answer would have gone.
		s.override = &pendingOverride{key: q.key, resume: s.State + 1}
		s.State = StateOverrideText
		return statePrompt(StateOverrideText)
	}
	return e.reprompt(s)
}

// advanceOverride stores the free-text note for the question that triggered
// the detour, nulls out its boolean field, and resumes the deferred state.
func (e *Engine) advanceOverride(s *Session, in Input) Reply {
	text := strings.TrimSpace(in.text)
	if !in.isText || text == "" {
		return e.reprompt(s)
	}

	ov := s.override
	s.override = nil
	s.Answer.OtherNotes[ov.key] = text
	s.Answer.setBool(ov.key, nil)

	return advanceTo(s, ov.resume, fmt.Sprintf("%q, got it.", text))
}

func (e *Engine) advanceTraining(ctx context.Context, s *Session, in Input) Reply {
	if in.isText {
		text := strings.TrimSpace(in.text)
		if text == "" {
			return e.reprompt(s)
		}
		s.Answer.TrainingType = &text
		return e.resolveTraining(ctx, s, text+", got it.")
	}

	switch in.choice {
	case TokenNone:
		s.Answer.TrainingType = nil
		return e.resolveTraining(ctx, s, "No training, got it.")
	case TokenOther:
		// Stay in the training state; the next free text is the answer.
		return Reply{Text: "What type of training? (type it)"}
	case TokenStrength, TokenCardio, TokenZone2, TokenSport:
		v := in.choice
		s.Answer.TrainingType = &v
		return e.resolveTraining(ctx, s, capitalize(v)+", got it.")
	}
	return e.reprompt(s)
}

// resolveTraining finishes the training question and decides whether the
// last-meal question can be skipped because the side log already has an
// entry for the day.
func (e *Engine) resolveTraining(ctx context.Context, s *Session, ack string) Reply {
	logged, err := e.meals.LastMealTime(ctx, s.Day)
	if err != nil {
		e.log.WarnContext(ctx, "Meal log lookup failed, asking the question instead", "day", s.Day, "error", err)
		logged = ""
	}

	if logged != "" {
		s.Answer.LastMealTime = &logged
		return advanceTo(s, StateCaffeineCutoff,
			fmt.Sprintf("%s\n\nLast meal already logged at %s.", ack, logged))
	}
	return advanceTo(s, StateLastMealTime, ack)
}

// advanceTimeAnswer handles the two HH:MM questions. Any non-empty text is
// accepted verbatim; downstream consumers treat malformed values as opaque
// strings.
func (e *Engine) advanceTimeAnswer(s *Session, in Input, set func(*string), next State) Reply {
	if in.isText {
		text := strings.TrimSpace(in.text)
		if text == "" {
			return e.reprompt(s)
		}
		set(&text)
		return advanceTo(s, next, text+", got it.")
	}
	if in.choice == TokenSkip {
		set(nil)
		return advanceTo(s, next, "Skipped.")
	}
	return e.reprompt(s)
}

func (e *Engine) advanceHydration(s *Session, in Input) Reply {
	if in.isText {
		return e.reprompt(s)
	}
	switch in.choice {
	case TokenGood, TokenPoor:
		s.Answer.Hydration = in.choice
		return advanceTo(s, StateSupplements, capitalize(in.choice)+", got it.")
	}
	return e.reprompt(s)
}

func (e *Engine) advanceSupplements(s *Session, in Input) Reply {
	if in.isText {
		text := strings.TrimSpace(in.text)
		if text == "" {
			return e.reprompt(s)
		}
		s.Answer.Supplements = &text
		return advanceTo(s, StateMeditation, text+", got it.")
	}
	if in.choice == TokenNone {
		s.Answer.Supplements = nil
		return advanceTo(s, StateMeditation, "No supplements.")
	}
	return e.reprompt(s)
}

func (e *Engine) advanceMeditation(ctx context.Context, s *Session, in Input) (Reply, bool, error) {
	if in.isText {
		return e.reprompt(s), false, nil
	}
	switch in.choice {
	case TokenYes:
		v := true
		s.Answer.Meditation = &v
		s.State = StateMeditationMinutes
		return statePrompt(StateMeditationMinutes), false, nil
	case TokenNo:
		v := false
		s.Answer.Meditation = &v
		s.Answer.MeditationMinutes = nil
		return e.finish(ctx, s)
	}
	return e.reprompt(s), false, nil
}

func (e *Engine) advanceMeditationMinutes(ctx context.Context, s *Session, in Input) (Reply, bool, error) {
	if !in.isText {
		return e.reprompt(s), false, nil
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(in.text))
	if err != nil || minutes <= 0 {
		// The one validation loop in the machine: same state, error
		// prompt, nothing else touched.
		return Reply{Text: "Please enter a number (minutes)."}, false, nil
	}

	s.Answer.MeditationMinutes = &minutes
	return e.finish(ctx, s)
}

// finish persists the completed record and emits the summary. On a save
// failure the session state is left untouched so the user's last input can
// simply be sent again.
func (e *Engine) finish(ctx context.Context, s *Session) (Reply, bool, error) {
	if err := s.Answer.validate(); err != nil {
		return Reply{}, false, fmt.Errorf("checklist record for %s is inconsistent: %w", s.Day, err)
	}
	if err := e.store.SaveAnswer(ctx, s.Answer); err != nil {
		e.log.ErrorContext(ctx, "Failed to save checklist", "day", s.Day, "error", err)
		return Reply{}, false, fmt.Errorf("failed to save checklist for %s: %w", s.Day, err)
	}

	s.State = StateDone
	e.log.InfoContext(ctx, "Checklist saved", "day", s.Day)
	return Reply{Text: s.Answer.Summary()}, true, nil
}

// reprompt re-emits the current state's prompt unchanged, used for inputs
// outside the offered choice set.
func (e *Engine) reprompt(s *Session) Reply {
	return statePrompt(s.State)
}

// advanceTo moves the session to the next state and prefixes its prompt
// with the acknowledgment of the answer just given.
func advanceTo(s *Session, next State, ack string) Reply {
	s.State = next
	p := statePrompt(next)
	if ack != "" {
		p.Text = ack + "\n\n" + p.Text
	}
	return p
}
