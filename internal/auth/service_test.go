package auth_test

import (
	"errors"
	"testing"
	"time"

	"calctree/internal/auth"
	"calctree/internal/storage"
)

func setupService(t *testing.T) *auth.Service {
	t.Helper()

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return auth.NewService(store, []byte("test-secret"))
}

func TestRegister(t *testing.T) {
	svc := setupService(t)

	result, err := svc.Register("testuser", "password123")
	if err != nil {
		t.Fatalf("unexpected error on register: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token on register")
	}
	if result.User.ID == 0 || result.User.Username != "testuser" {
		t.Fatalf("unexpected user in register result: %+v", result.User)
	}

	// Same username again must fail, regardless of password.
	_, err = svc.Register("testuser", "otherpassword")
	if !errors.Is(err, auth.ErrUsernameTaken) {
		t.Fatalf("expected duplicate username error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register("", "password123"); !errors.Is(err, auth.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
	if _, err := svc.Register("testuser", ""); !errors.Is(err, auth.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
	if _, err := svc.Register("testuser", "12345"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Fatalf("expected weak password error, got %v", err)
	}
	if _, err := svc.Register("testuser", "123456"); err != nil {
		t.Fatalf("6-character password should be accepted, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Register("authuser", "secret123"); err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	result, err := svc.Login("authuser", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token, got empty string")
	}

	// Wrong password and unknown user must be indistinguishable.
	_, wrongPassErr := svc.Login("authuser", "wrongpassword")
	_, unknownUserErr := svc.Login("nosuchuser", "secret123")
	if !errors.Is(wrongPassErr, auth.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", wrongPassErr)
	}
	if !errors.Is(unknownUserErr, auth.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", unknownUserErr)
	}
	if wrongPassErr.Error() != unknownUserErr.Error() {
		t.Fatalf("errors must match to avoid username enumeration: %q vs %q", wrongPassErr, unknownUserErr)
	}
}

func TestParseToken(t *testing.T) {
	svc := setupService(t)

	result, err := svc.Register("tokenuser", "secret123")
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}

	claims, err := svc.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("expected user id %d in claims, got %d", result.User.ID, claims.UserID)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		t.Fatal("token already expired")
	}

	if _, err := svc.ParseToken(result.Token + "tampered"); err == nil {
		t.Fatal("expected error for tampered token")
	}

	other := auth.NewService(nil, []byte("other-secret"))
	if _, err := other.ParseToken(result.Token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}
