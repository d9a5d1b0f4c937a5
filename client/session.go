package client

import (
	"context"
	"strings"
	"sync"
)

// Role is derived once from account flags and passed around as a type.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
	RoleAgent
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleAgent:
		return "agent"
	default:
		return "user"
	}
}

// Session lifecycle states. Loading means a refresh is outstanding and
// callers should render neutral instead of redirecting.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

// GuardDecision tells a caller what to do with a protected destination.
type GuardDecision int

const (
	GuardWait GuardDecision = iota
	GuardRedirect
	GuardAllow
)

// Profile is the authenticated account as reported by the backend.
type Profile struct {
	UserID        int     `json:"user_id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	ContactNumber *string `json:"contact_number"`
	IsStaff       bool    `json:"is_staff"`
	IsSuperuser   bool    `json:"is_superuser"`
	IsPartner     bool    `json:"is_partner"`
	IsAgent       bool    `json:"is_agent"`
}

// DeriveRole maps account flags to a role.
func DeriveRole(p *Profile) Role {
	switch {
	case p.IsStaff || p.IsSuperuser:
		return RoleAdmin
	case p.IsPartner || p.IsAgent:
		return RoleAgent
	default:
		return RoleUser
	}
}

// Session tracks who is logged in. It owns both store scopes so logout can
// sweep them together.
type Session struct {
	api     *API
	session Store
	durable Store

	mu      sync.Mutex
	state   SessionState
	profile *Profile
	role    Role
}

func NewSession(api *API, sessionStore, durableStore Store) *Session {
	return &Session{
		api:     api,
		session: sessionStore,
		durable: durableStore,
		state:   SessionLoading,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the resolved account, nil when anonymous or loading.
func (s *Session) Profile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Role returns the derived role. Meaningful only when authenticated.
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Refresh asks the backend who the token belongs to. A rejected or missing
// token resolves to anonymous; only transport-level failures are errors.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state = SessionLoading
	s.mu.Unlock()

	if s.api.Token() == "" {
		s.resolve(nil)
		return nil
	}

	var p Profile
	err := s.api.Get(ctx, "/api/v1/auth/me", &p)
	if err != nil {
		if _, ok := err.(*APIError); ok {
			// The backend answered: whatever it said, we are not
			// authenticated.
			s.resolve(nil)
			return nil
		}
		s.mu.Lock()
		s.state = SessionAnonymous
		s.mu.Unlock()
		return err
	}

	s.resolve(&p)
	return nil
}

func (s *Session) resolve(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	if p == nil {
		s.state = SessionAnonymous
		s.role = RoleUser
		return
	}
	s.state = SessionAuthenticated
	s.role = DeriveRole(p)
}

// Guard decides whether a protected destination may render. While loading
// the answer is wait; a resolved anonymous session redirects and remembers
// where the caller wanted to go.
func (s *Session) Guard(destination string) GuardDecision {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case SessionLoading:
		return GuardWait
	case SessionAnonymous:
		s.session.Set(KeyLoginRedirect, destination)
		return GuardRedirect
	default:
		return GuardAllow
	}
}

// PendingRedirect returns and clears the destination stored by a redirect.
func (s *Session) PendingRedirect() string {
	dest, ok := s.session.Get(KeyLoginRedirect)
	if ok {
		s.session.Delete(KeyLoginRedirect)
	}
	return dest
}

// RequestOTP asks the backend to send a code. Re-triggerable; the
// destination sticks around for the verify step.
func (s *Session) RequestOTP(ctx context.Context, destination string) error {
	destination = strings.TrimSpace(destination)
	if err := s.api.Post(ctx, "/api/v1/auth/request-otp", map[string]string{
		"destination": destination,
		"purpose":     "login",
	}, nil); err != nil {
		return err
	}
	s.session.Set(KeyOTPDestination, destination)
	return nil
}

// OTPDestination returns where the last code was sent.
func (s *Session) OTPDestination() string {
	dest, _ := s.session.Get(KeyOTPDestination)
	return dest
}

// VerifyOTP exchanges a code for a session token. A rejected code keeps the
// destination so the shopper can retry or re-request.
func (s *Session) VerifyOTP(ctx context.Context, destination, code string) error {
	var result struct {
		Token       string `json:"token"`
		UserID      int    `json:"user_id"`
		Username    string `json:"username"`
		Email       string `json:"email"`
		IsStaff     bool   `json:"is_staff"`
		IsSuperuser bool   `json:"is_superuser"`
	}
	err := s.api.Post(ctx, "/api/v1/auth/verify-otp", map[string]string{
		"destination": strings.TrimSpace(destination),
		"code":        strings.TrimSpace(code),
	}, &result)
	if err != nil {
		return err
	}

	s.durable.Set(KeyToken, result.Token)
	s.session.Delete(KeyOTPDestination)
	s.resolve(&Profile{
		UserID:      result.UserID,
		Username:    result.Username,
		Email:       result.Email,
		IsStaff:     result.IsStaff,
		IsSuperuser: result.IsSuperuser,
	})
	return nil
}

// Logout clears every credential artifact from both store scopes, then
// tells the backend best-effort.
func (s *Session) Logout(ctx context.Context) {
	token := s.api.Token()

	s.durable.Delete(KeyToken)
	s.session.Delete(KeyToken)
	s.session.Delete(KeyOTPDestination)
	s.durable.Delete(KeyOTPDestination)
	s.session.Delete(KeyLoginRedirect)
	s.resolve(nil)

	if token != "" {
		s.api.RevokeToken(ctx, token)
	}
}
