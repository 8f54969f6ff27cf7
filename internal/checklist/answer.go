package checklist

import (
	"fmt"
	"strings"
)

// Question keys. They double as the other_notes map keys and match the
// checklist column names in storage.
const (
	KeyElectronicsOff = "electronics_off"
	KeyNasalRinse     = "nasal_rinse"
	KeyNasalStrips    = "nasal_strips"
	KeyMouthTaping    = "mouth_taping"
	KeySauna          = "sauna"
	KeyDiaphragmWork  = "diaphragm_work"
	KeyHeavyScreenDay = "heavy_screen_day"
	KeyMeditation     = "meditation"
)

// Answer accumulates one day's checklist answers as the conversation runs.
//
// Each *bool field is tri-state: true/false from a direct answer, or nil
// when the user chose Other, in which case OtherNotes holds the free-text
// note under the question key. Exactly one of the two must hold for every
// answered question.
type Answer struct {
	Day string

	ElectronicsOff *bool
	NasalRinse     *bool
	NasalStrips    *bool
	MouthTaping    *bool
	Sauna          *bool
	DiaphragmWork  *bool
	HeavyScreenDay *bool
	Meditation     *bool

	MeditationMinutes *int
	TrainingType      *string
	LastMealTime      *string
	CaffeineCutoff    *string
	Hydration         string
	Supplements       *string

	OtherNotes map[string]string
}

func newAnswer(day string) *Answer {
	return &Answer{Day: day, OtherNotes: map[string]string{}}
}

// setBool assigns the tri-state field for a question key.
func (a *Answer) setBool(key string, v *bool) {
	switch key {
	case KeyElectronicsOff:
		a.ElectronicsOff = v
	case KeyNasalRinse:
		a.NasalRinse = v
	case KeyNasalStrips:
		a.NasalStrips = v
	case KeyMouthTaping:
		a.MouthTaping = v
	case KeySauna:
		a.Sauna = v
	case KeyDiaphragmWork:
		a.DiaphragmWork = v
	case KeyHeavyScreenDay:
		a.HeavyScreenDay = v
	case KeyMeditation:
		a.Meditation = v
	}
}

// Bool returns the tri-state field for a question key.
func (a *Answer) Bool(key string) *bool {
	switch key {
	case KeyElectronicsOff:
		return a.ElectronicsOff
	case KeyNasalRinse:
		return a.NasalRinse
	case KeyNasalStrips:
		return a.NasalStrips
	case KeyMouthTaping:
		return a.MouthTaping
	case KeySauna:
		return a.Sauna
	case KeyDiaphragmWork:
		return a.DiaphragmWork
	case KeyHeavyScreenDay:
		return a.HeavyScreenDay
	case KeyMeditation:
		return a.Meditation
	}
	return nil
}

// validate checks the note invariant: a question key appears in OtherNotes
// iff its boolean field is nil. The seven nightly questions must all be
// answered one way or the other by the time the record is saved.
func (a *Answer) validate() error {
	for _, key := range []string{
		KeyElectronicsOff, KeyNasalRinse, KeyNasalStrips, KeyMouthTaping,
		KeySauna, KeyDiaphragmWork, KeyHeavyScreenDay,
	} {
		_, hasNote := a.OtherNotes[key]
		hasValue := a.Bool(key) != nil
		if hasValue && hasNote {
			return fmt.Errorf("question %q has both a boolean answer and a note", key)
		}
		if !hasValue && !hasNote {
			return fmt.Errorf("question %q was never answered", key)
		}
	}
	if a.Meditation == nil {
		return fmt.Errorf("question %q was never answered", KeyMeditation)
	}
	return nil
}

// yn renders a tri-state answer: Yes/No, the override note, or a dash.
func (a *Answer) yn(key string) string {
	if note, ok := a.OtherNotes[key]; ok {
		return "Other: " + note
	}
	v := a.Bool(key)
	if v == nil {
		return "-"
	}
	if *v {
		return "Yes"
	}
	return "No"
}

// Summary renders the completed checklist for the terminal message,
// enumerating every field and substituting override notes for Yes/No where
// the user answered with free text.
func (a *Answer) Summary() string {
	training := "None"
	if a.TrainingType != nil {
		training = *a.TrainingType
	}
	meal := orDash(a.LastMealTime)
	caffeine := orDash(a.CaffeineCutoff)
	hydration := "-"
	if a.Hydration != "" {
		hydration = capitalize(a.Hydration)
	}
	supps := "None"
	if a.Supplements != nil {
		supps = *a.Supplements
	}
	medMin := ""
	if a.MeditationMinutes != nil {
		medMin = fmt.Sprintf(" (%d min)", *a.MeditationMinutes)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Checklist saved for %s\n\n", a.Day)
	fmt.Fprintf(&b, "Electronics off 1h before bed: %s\n", a.yn(KeyElectronicsOff))
	fmt.Fprintf(&b, "Nasal rinse: %s\n", a.yn(KeyNasalRinse))
	fmt.Fprintf(&b, "Nasal strips: %s\n", a.yn(KeyNasalStrips))
	fmt.Fprintf(&b, "Mouth taping: %s\n", a.yn(KeyMouthTaping))
	fmt.Fprintf(&b, "Sauna: %s\n", a.yn(KeySauna))
	fmt.Fprintf(&b, "Diaphragm work: %s\n", a.yn(KeyDiaphragmWork))
	fmt.Fprintf(&b, "Heavy screen day: %s\n", a.yn(KeyHeavyScreenDay))
	fmt.Fprintf(&b, "Training: %s\n", training)
	fmt.Fprintf(&b, "Last meal: %s\n", meal)
	fmt.Fprintf(&b, "Last caffeine: %s\n", caffeine)
	fmt.Fprintf(&b, "Hydration: %s\n", hydration)
	fmt.Fprintf(&b, "Supplements: %s\n", supps)
	fmt.Fprintf(&b, "Meditation: %s%s", a.yn(KeyMeditation), medMin)
	return b.String()
}

func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
