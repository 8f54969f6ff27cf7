package checklist

// Session is the ephemeral per-chat conversation state. It lives from Start
// until a successful save or a cancel; an abandoned session is simply
// dropped with its registry.
type Session struct {
	// State is the question the session is waiting on, or StateDone.
	State State

	// Day is the calendar date ("YYYY-MM-DD") this session is filling in.
	Day string

	// Answer is the partially filled record.
	Answer *Answer

	// override remembers, while in StateOverrideText, which question the
	// free-text note belongs to and where to resume. One-deep by
	// construction: the override state itself offers no Other choice.
	override *pendingOverride
}

type pendingOverride struct {
	key    string
	resume State
}

// Active reports whether the session still accepts input.
func (s *Session) Active() bool {
	return s != nil && s.State != StateDone
}

// Input is one user action: either a choice token from the offered option
// set or free text.
type Input struct {
	choice string
	text   string
	isText bool
}

// ChoiceInput wraps a tapped option token.
func ChoiceInput(token string) Input {
	return Input{choice: token}
}

// TextInput wraps a free-text message.
func TextInput(text string) Input {
	return Input{text: text, isText: true}
}
