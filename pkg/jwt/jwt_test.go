package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"roster-guard/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		Issuer:    "identity",
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("E1", "scheduler", 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.EmployeeID != "E1" {
		t.Errorf("期望 EmployeeID=E1，实际=%s", claims.EmployeeID)
	}
	if claims.Role != "scheduler" {
		t.Errorf("期望 Role=scheduler，实际=%s", claims.Role)
	}
	if claims.Issuer != "identity" {
		t.Errorf("期望 Issuer=identity，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("E1", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际 %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret", Issuer: "identity"})

	token, _ := other.GenerateToken("E1", "admin", time.Minute)
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", Issuer: "elsewhere"})

	token, _ := other.GenerateToken("E1", "admin", time.Minute)
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("签发方不一致应拒绝，实际 %v", err)
	}
}

func TestParseToken_MissingEmployee(t *testing.T) {
	m := newTestManager()

	token, _ := m.GenerateToken("", "admin", time.Minute)
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("缺少 employee_id 应拒绝，实际 %v", err)
	}
}

func TestParseToken_RejectsNoneAlg(t *testing.T) {
	m := newTestManager()

	claims := Claims{
		EmployeeID: "E1",
		Role:       "admin",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "identity",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造 none token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("none 算法应拒绝，实际 %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际 %v", err)
	}
}
