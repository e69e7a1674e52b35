package dashboard

import (
	"strings"
	"sync"
)

// State is the screen the session is on.
type State int

const (
	StateLoginForm State = iota
	StateDashboard
)

func (s State) String() string {
	switch s {
	case StateLoginForm:
		return "login_form"
	case StateDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// LoginForm holds the three required fields of the entry form.
// Only their presence is checked.
type LoginForm struct {
	FullName     string
	PolicyNumber string
	Password     string
}

func (f LoginForm) complete() bool {
	return strings.TrimSpace(f.FullName) != "" &&
		strings.TrimSpace(f.PolicyNumber) != "" &&
		strings.TrimSpace(f.Password) != ""
}

// Session is the single process-local session. It starts on the login form.
type Session struct {
	mu     sync.Mutex
	state  State
	holder string
}

func NewSession() *Session {
	return &Session{state: StateLoginForm}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HolderName is the full name given at login, empty on the login form.
func (s *Session) HolderName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder
}

// Login moves LoginForm -> Dashboard when every field is filled in. On
// ErrMissingFields the state is left unchanged.
func (s *Session) Login(f LoginForm) error {
	if !f.complete() {
		return ErrMissingFields
	}
	s.mu.Lock()
	s.state = StateDashboard
	s.holder = strings.TrimSpace(f.FullName)
	s.mu.Unlock()
	return nil
}

// Return moves back to the login form.
func (s *Session) Return() {
	s.mu.Lock()
	s.state = StateLoginForm
	s.holder = ""
	s.mu.Unlock()
}
