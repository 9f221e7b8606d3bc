package service_test

import (
	"errors"
	"slices"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"perfectapi/internal/domain"
	"perfectapi/internal/service"
)

const (
	testSecret     = "0123456789abcdef0123456789abcdef"
	testWriteToken = "static-write-token"
	testAPIKey     = "static-api-key"
)

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(testSecret, testWriteToken, testAPIKey, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestAuthService_IssueToken(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.IssueToken("admin", "adminpass", nil)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token.TokenType != "bearer" {
		t.Fatalf("expected token type bearer, got %q", token.TokenType)
	}
	if token.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", token.ExpiresIn)
	}

	principal, err := svc.VerifyBearer(token.AccessToken)
	if err != nil {
		t.Fatalf("VerifyBearer: %v", err)
	}
	if principal.Subject != "admin" {
		t.Fatalf("expected subject admin, got %q", principal.Subject)
	}
	for _, scope := range []string{service.ScopeUsersWrite, service.ScopeProductsWrite, service.ScopeOrdersWrite, service.ScopeRead} {
		if !principal.HasScope(scope) {
			t.Fatalf("expected admin principal to hold %s", scope)
		}
	}
}

func TestAuthService_IssueToken_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.IssueToken("admin", "wrong", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	_, err = svc.IssueToken("nobody", "whatever", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestAuthService_IssueToken_ScopeNarrowing(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.IssueToken("admin", "adminpass", []string{service.ScopeRead})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	principal, err := svc.VerifyBearer(token.AccessToken)
	if err != nil {
		t.Fatalf("VerifyBearer: %v", err)
	}
	if !slices.Equal(principal.Scopes, []string{service.ScopeRead}) {
		t.Fatalf("expected narrowed scopes, got %v", principal.Scopes)
	}
}

func TestAuthService_IssueToken_ScopeEscalationForbidden(t *testing.T) {
	svc := newTestAuthService(t)

	// reader holds only the read scope; asking for a write scope must fail.
	_, err := svc.IssueToken("reader", "readerpass", []string{service.ScopeUsersWrite})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthService_VerifyBearer_WriteToken(t *testing.T) {
	svc := newTestAuthService(t)

	principal, err := svc.VerifyBearer(testWriteToken)
	if err != nil {
		t.Fatalf("VerifyBearer: %v", err)
	}
	if principal.Subject != "write-token" || principal.Via != "token" {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if !principal.HasScope(service.ScopeOrdersWrite) {
		t.Fatal("expected the write token to hold every scope")
	}
}

func TestAuthService_VerifyBearer_Garbage(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.VerifyBearer("not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_VerifyBearer_ForeignSignature(t *testing.T) {
	svc := newTestAuthService(t)
	other, err := service.NewAuthService("another-secret-another-secret-xx", "", "", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	token, err := other.IssueToken("admin", "adminpass", nil)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.VerifyBearer(token.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestAuthService_VerifyAPIKey(t *testing.T) {
	svc := newTestAuthService(t)

	principal, err := svc.VerifyAPIKey(testAPIKey)
	if err != nil {
		t.Fatalf("VerifyAPIKey: %v", err)
	}
	if principal.Subject != "api-key" || principal.Via != "api_key" {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := svc.VerifyAPIKey("wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
