package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// UserRecord is the user slot of a session: who is signed in and which UI
// variant they get.
type UserRecord struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the record selects the admin console. A nil record
// or any role other than admin gets the client variant.
func (u *UserRecord) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashError   FlashLevel = "error"
	FlashInfo    FlashLevel = "info"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Level   FlashLevel `json:"level"`
	Message string     `json:"message"`
}

// Session is the server-side record behind the portal cookie. Token and User
// are the two credential slots; Flashes survive a Clear so that a forced
// logout can still explain itself on the login page.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token,omitempty"`
	User      *UserRecord `json:"user,omitempty"`
	Flashes   []Flash     `json:"flashes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSession returns an anonymous session.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// IsAuthenticated is true iff the token slot is non-empty. Nothing else is
// consulted: no expiry, no signature, no remote check.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

// Authenticate fills both credential slots.
func (s *Session) Authenticate(token string, user UserRecord, now time.Time) {
	s.Token = token
	s.User = &user
	s.UpdatedAt = now
}

// Clear empties both credential slots.
func (s *Session) Clear() {
	s.Token = ""
	s.User = nil
}

// Role returns the stored role, or "" when nobody is signed in.
func (s *Session) Role() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}

// SessionEventKind enumerates the observable session transitions.
type SessionEventKind string

const (
	EventAuthenticated SessionEventKind = "authenticated"
	EventCleared       SessionEventKind = "cleared"
)

// Reasons attached to EventCleared.
const (
	ReasonLogout       = "logout"
	ReasonUnauthorized = "unauthorized"
)

// SessionEvent is emitted by a session store whenever the credential slots
// change state.
type SessionEvent struct {
	Kind      SessionEventKind `json:"kind"`
	SessionID string           `json:"session_id"`
	Email     string           `json:"email,omitempty"`
	Role      string           `json:"role,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	At        time.Time        `json:"at"`
}
