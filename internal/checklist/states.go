package checklist

// State identifies the question the conversation is currently waiting on.
// The boolean question states are declared in sequence order so the next
// state after each of them is simply state+1.
type State int

const (
	StateElectronicsOff State = iota
	StateNasalRinse
	StateNasalStrips
	StateMouthTaping
	StateSauna
	StateDiaphragmWork
	StateHeavyScreenDay
	StateTraining
	StateLastMealTime
	StateCaffeineCutoff
	StateHydration
	StateSupplements
	StateMeditation
	StateMeditationMinutes
	StateOverrideText
	StateDone
)

func (s State) String() string {
	switch s {
	case StateElectronicsOff:
		return "electronics_off"
	case StateNasalRinse:
		return "nasal_rinse"
	case StateNasalStrips:
		return "nasal_strips"
	case StateMouthTaping:
		return "mouth_taping"
	case StateSauna:
		return "sauna"
	case StateDiaphragmWork:
		return "diaphragm_work"
	case StateHeavyScreenDay:
		return "heavy_screen_day"
	case StateTraining:
		return "training"
	case StateLastMealTime:
		return "last_meal_time"
	case StateCaffeineCutoff:
		return "caffeine_cutoff"
	case StateHydration:
		return "hydration"
	case StateSupplements:
		return "supplements"
	case StateMeditation:
		return "meditation"
	case StateMeditationMinutes:
		return "meditation_minutes"
	case StateOverrideText:
		return "override_text"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Choice tokens accepted by Advance. The host maps button taps to these.
const (
	TokenYes      = "yes"
	TokenNo       = "no"
	TokenOther    = "other"
	TokenNone     = "none"
	TokenStrength = "strength"
	TokenCardio   = "cardio"
	TokenZone2    = "zone2"
	TokenSport    = "sport"
	TokenGood     = "good"
	TokenPoor     = "poor"
	TokenSkip     = "skip"
)

// Option is one tappable choice offered alongside a prompt. The host decides
// how to render it (e.g., as an inline keyboard button).
type Option struct {
	Label string
	Token string
}

// Reply is the engine's outgoing message: prompt text plus the rows of
// choices valid for the state the session is now in.
type Reply struct {
	Text    string
	Options [][]Option
}

var (
	yesNoOptions = [][]Option{
		{{Label: "Yes", Token: TokenYes}, {Label: "No", Token: TokenNo}, {Label: "Other", Token: TokenOther}},
	}
	meditationOptions = [][]Option{
		{{Label: "Yes", Token: TokenYes}, {Label: "No", Token: TokenNo}},
	}
	trainingOptions = [][]Option{
		{{Label: "No training", Token: TokenNone}},
		{{Label: "Strength", Token: TokenStrength}, {Label: "Cardio", Token: TokenCardio}},
		{{Label: "Zone 2", Token: TokenZone2}, {Label: "Sport", Token: TokenSport}},
		{{Label: "Other", Token: TokenOther}},
	}
	hydrationOptions = [][]Option{
		{{Label: "Good", Token: TokenGood}, {Label: "Poor", Token: TokenPoor}},
	}
	supplementsOptions = [][]Option{
		{{Label: "None", Token: TokenNone}},
	}
	skipOptions = [][]Option{
		{{Label: "Skip", Token: TokenSkip}},
	}
)

// boolQuestion describes one of the seven yes/no/other questions. All seven
// share a single transition function; this table is the only per-question
// data.
type boolQuestion struct {
	key    string
	prompt string
}

var boolQuestions = map[State]boolQuestion{
	StateElectronicsOff: {KeyElectronicsOff, "Did you turn off electronics/lights 1h before sleep?"},
	StateNasalRinse:     {KeyNasalRinse, "Did you rinse your nose?"},
	StateNasalStrips:    {KeyNasalStrips, "Did you use nasal strips?"},
	StateMouthTaping:    {KeyMouthTaping, "Mouth taping?"},
	StateSauna:          {KeySauna, "Did you do sauna?"},
	StateDiaphragmWork:  {KeyDiaphragmWork, "Did you do diaphragm work?"},
	StateHeavyScreenDay: {KeyHeavyScreenDay, "Was it a heavy screen/social media day?"},
}

// statePrompt returns the question asked when a session enters the given
// state, with the choice set the host should offer.
func statePrompt(state State) Reply {
	if q, ok := boolQuestions[state]; ok {
		return Reply{Text: q.prompt, Options: yesNoOptions}
	}

	switch state {
	case StateTraining:
		return Reply{Text: "Training?", Options: trainingOptions}
	case StateLastMealTime:
		return Reply{Text: "What time was your last meal? (HH:MM or type 'skip')", Options: skipOptions}
	case StateCaffeineCutoff:
		return Reply{Text: "What time was your last caffeine? (HH:MM or type 'skip')", Options: skipOptions}
	case StateHydration:
		return Reply{Text: "How was your hydration today?", Options: hydrationOptions}
	case StateSupplements:
		return Reply{Text: "Any supplements? Type what you took, or tap None.", Options: supplementsOptions}
	case StateMeditation:
		return Reply{Text: "Did you meditate or do breathwork?", Options: meditationOptions}
	case StateMeditationMinutes:
		return Reply{Text: "How many minutes?"}
	case StateOverrideText:
		return Reply{Text: "Type your note for this question:"}
	}
	return Reply{}
}
