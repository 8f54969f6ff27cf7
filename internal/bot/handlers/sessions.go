package handlers

import (
	"sync"

	"github.com/edgard/healthbot/internal/checklist"
)

// chatState holds the per-chat conversational state: an in-flight checklist
// session and the pinned date for the next voice note, if any.
type chatState struct {
	checklist *checklist.Session
	nextDate  string
}

// Sessions is the registry of per-chat state, safe for concurrent handler
// invocations.
type Sessions struct {
	mu    sync.Mutex
	chats map[int64]*chatState
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{chats: map[int64]*chatState{}}
}

func (s *Sessions) state(chatID int64) *chatState {
	st, ok := s.chats[chatID]
	if !ok {
		st = &chatState{}
		s.chats[chatID] = st
	}
	return st
}

// Checklist returns the active checklist session for a chat, or nil.
func (s *Sessions) Checklist(chatID int64) *checklist.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.chats[chatID]; ok && st.checklist.Active() {
		return st.checklist
	}
	return nil
}

// SetChecklist installs a checklist session for a chat, replacing any
// previous one.
func (s *Sessions) SetChecklist(chatID int64, session *checklist.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(chatID).checklist = session
}

// ClearChecklist drops the chat's checklist session.
func (s *Sessions) ClearChecklist(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.chats[chatID]; ok {
		st.checklist = nil
	}
}

// PinDate stores the date the next voice note should be attributed to.
func (s *Sessions) PinDate(chatID int64, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(chatID).nextDate = day
}

// TakePinnedDate returns and clears the pinned date for a chat, or "" when
// none is pinned.
func (s *Sessions) TakePinnedDate(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.chats[chatID]
	if !ok {
		return ""
	}
	day := st.nextDate
	st.nextDate = ""
	return day
}
