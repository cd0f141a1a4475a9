package service

import "github.com/pageza/nutritrack/backend/internal/models"

// Session is the logged-in state threaded explicitly through every store
// call. A nil *Session is an anonymous caller.
type Session struct {
	account models.Account
}

// NewSession creates a session for the given account. The credential hash is
// never kept in a session.
func NewSession(account models.Account) *Session {
	return &Session{account: account.Sanitized()}
}

// IsAuthenticated reports whether the session holds an account.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.account.ID != ""
}

// Account returns a copy of the session's account, or nil when unauthenticated.
func (s *Session) Account() *models.Account {
	if !s.IsAuthenticated() {
		return nil
	}
	a := s.account.Sanitized()
	return &a
}

// AccountID returns the id of the session's account ("" when unauthenticated).
func (s *Session) AccountID() string {
	if s == nil {
		return ""
	}
	return s.account.ID
}

func (s *Session) clear() {
	s.account = models.Account{}
}

func (s *Session) setProfile(p *models.Profile) {
	cp := *p
	s.account.Profile = &cp
}
