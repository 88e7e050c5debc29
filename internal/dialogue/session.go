package dialogue

import "github.com/alexanderramin/arecabot/internal/extract"

// Session is the dialogue state of one conversation. An empty Intent means
// the session is idle and the next turn starts a new topic; otherwise the
// session is awaiting the Required parameters not yet in Collected.
//
// A Session is not safe for concurrent use. Callers keep one per
// conversation and serialise its turns.
type Session struct {
	Intent    string
	Collected extract.Params
	Required  []extract.Name
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{Collected: extract.Params{}}
}

// Idle reports whether no topic is active.
func (s *Session) Idle() bool {
	return s.Intent == ""
}

// Reset drops the active topic and everything collected for it.
func (s *Session) Reset() {
	s.Intent = ""
	s.Collected = extract.Params{}
	s.Required = nil
}

// Missing lists the required parameters not collected yet, in required order.
func (s *Session) Missing() []extract.Name {
	return s.Collected.Missing(s.Required)
}
