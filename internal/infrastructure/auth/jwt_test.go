package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/jortega/bancore/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:             "acc-1",
		AccountNumber:  "100200300",
		DocumentNumber: "8005551",
	}
}

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(testAccount())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.AccountID != "acc-1" {
		t.Errorf("expected account ID acc-1, got %s", claims.AccountID)
	}
	if claims.AccountNumber != "100200300" {
		t.Errorf("expected account number 100200300, got %s", claims.AccountNumber)
	}
	if claims.DocumentNumber != "8005551" {
		t.Errorf("expected document number 8005551, got %s", claims.DocumentNumber)
	}
}

func TestJWTManager_VerifyExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate(testAccount())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected expired token error, got %v", err)
	}
}

func TestJWTManager_VerifyWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(testAccount())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestJWTManager_VerifyGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}
