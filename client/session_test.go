package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionFixtures(token string, profile map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/me":
			if r.Header.Get("Authorization") != "Token "+token {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
				return
			}
			json.NewEncoder(w).Encode(profile)
		case "/api/v1/auth/request-otp":
			var req struct {
				Destination string `json:"destination"`
				Purpose     string `json:"purpose"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Purpose == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "purpose is required"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "Verification code sent"})
		case "/api/v1/auth/verify-otp":
			var req struct {
				Code string `json:"code"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Code != "123456" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid or expired code"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": token, "user_id": 9, "username": "asha", "email": "asha@example.com",
			})
		case "/api/v1/auth/logout":
			json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestSession(srvURL string) (*Session, *SessionStore, *SessionStore) {
	sessionStore := NewSessionStore()
	durableStore := NewSessionStore()
	api := NewAPI(srvURL, durableStore)
	return NewSession(api, sessionStore, durableStore), sessionStore, durableStore
}

func TestSessionRefreshRejectedTokenIsAnonymousNotError(t *testing.T) {
	srv := httptest.NewServer(sessionFixtures("good", nil))
	defer srv.Close()

	s, _, durable := newTestSession(srv.URL)
	durable.Set(KeyToken, "expired")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("rejected token returned an error: %v", err)
	}
	if s.State() != SessionAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
	if s.Profile() != nil {
		t.Error("rejected token left a profile")
	}
}

func TestSessionRefreshDerivesRole(t *testing.T) {
	srv := httptest.NewServer(sessionFixtures("good", map[string]interface{}{
		"user_id": 9, "username": "asha", "email": "asha@example.com",
		"is_staff": true, "is_superuser": false,
	}))
	defer srv.Close()

	s, _, durable := newTestSession(srv.URL)
	durable.Set(KeyToken, "good")

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.State() != SessionAuthenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}
	if s.Role() != RoleAdmin {
		t.Errorf("role = %v, want admin from is_staff", s.Role())
	}
}

func TestDeriveRole(t *testing.T) {
	cases := []struct {
		profile Profile
		want    Role
	}{
		{Profile{IsStaff: true}, RoleAdmin},
		{Profile{IsSuperuser: true}, RoleAdmin},
		{Profile{IsPartner: true}, RoleAgent},
		{Profile{IsAgent: true}, RoleAgent},
		{Profile{IsStaff: true, IsAgent: true}, RoleAdmin}, // admin wins
		{Profile{}, RoleUser},
	}
	for _, tc := range cases {
		if got := DeriveRole(&tc.profile); got != tc.want {
			t.Errorf("DeriveRole(%+v) = %v, want %v", tc.profile, got, tc.want)
		}
	}
}

func TestSessionGuard(t *testing.T) {
	srv := httptest.NewServer(sessionFixtures("good", nil))
	defer srv.Close()

	s, _, _ := newTestSession(srv.URL)

	// Outstanding check: render neutral, no redirect.
	if got := s.Guard("/checkout"); got != GuardWait {
		t.Errorf("guard while loading = %v, want wait", got)
	}
	if s.PendingRedirect() != "" {
		t.Error("loading guard stored a redirect")
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Guard("/checkout"); got != GuardRedirect {
		t.Errorf("guard while anonymous = %v, want redirect", got)
	}
	if s.PendingRedirect() != "/checkout" {
		t.Error("redirect did not carry the destination")
	}
	if s.PendingRedirect() != "" {
		t.Error("destination not cleared after being read")
	}
}

func TestSessionOTPFlow(t *testing.T) {
	srv := httptest.NewServer(sessionFixtures("tok123", nil))
	defer srv.Close()

	s, _, durable := newTestSession(srv.URL)
	ctx := context.Background()

	if err := s.RequestOTP(ctx, " asha@example.com "); err != nil {
		t.Fatal(err)
	}
	if s.OTPDestination() != "asha@example.com" {
		t.Errorf("destination = %q, want trimmed email", s.OTPDestination())
	}

	// Wrong code: rejected, destination kept for retry.
	if err := s.VerifyOTP(ctx, "asha@example.com", "000000"); err == nil {
		t.Fatal("expected the wrong code to be rejected")
	}
	if s.OTPDestination() != "asha@example.com" {
		t.Error("rejection dropped the destination")
	}

	if err := s.VerifyOTP(ctx, "asha@example.com", "123456"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := durable.Get(KeyToken); tok != "tok123" {
		t.Errorf("stored token = %q, want tok123", tok)
	}
	if s.State() != SessionAuthenticated {
		t.Error("verified session not authenticated")
	}
	if s.OTPDestination() != "" {
		t.Error("destination kept after success")
	}
}

func TestSessionLogoutSweepsBothScopes(t *testing.T) {
	srv := httptest.NewServer(sessionFixtures("tok123", nil))
	defer srv.Close()

	s, sessionStore, durable := newTestSession(srv.URL)
	durable.Set(KeyToken, "tok123")
	sessionStore.Set(KeyOTPDestination, "asha@example.com")
	sessionStore.Set(KeyLoginRedirect, "/checkout")

	s.Logout(context.Background())

	if _, ok := durable.Get(KeyToken); ok {
		t.Error("durable token survived logout")
	}
	if _, ok := sessionStore.Get(KeyOTPDestination); ok {
		t.Error("otp destination survived logout")
	}
	if _, ok := sessionStore.Get(KeyLoginRedirect); ok {
		t.Error("login redirect survived logout")
	}
	if s.State() != SessionAnonymous {
		t.Error("logout did not resolve to anonymous")
	}
}
