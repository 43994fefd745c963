package identity

import (
	"testing"
	"time"

	"github.com/freshhfarm/storefront-backend/pkg/config"
)

func testConfig() config.IdentityConfig {
	return config.IdentityConfig{
		SecretKey: "test-secret",
		Issuer:    "https://clerk.example.com",
		Leeway:    30 * time.Second,
	}
}

func TestVerifySessionTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := MintSessionToken(cfg, time.Now(), "user_2abc", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := VerifySessionToken(cfg, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	sub, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if sub != "user_2abc" {
		t.Fatalf("expected subject user_2abc, got %q", sub)
	}
}

func TestVerifySessionTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()

	token, err := MintSessionToken(cfg, time.Now(), "user_2abc", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	bad := cfg
	bad.SecretKey = "another-secret"
	if _, err := VerifySessionToken(bad, token); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestVerifySessionTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()

	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintSessionToken(cfg, issued, "user_2abc", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := VerifySessionToken(cfg, token); err == nil {
		t.Fatal("expected verification to fail for expired token")
	}
}

func TestVerifySessionTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()

	other := cfg
	other.Issuer = "https://evil.example.com"
	token, err := MintSessionToken(other, time.Now(), "user_2abc", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := VerifySessionToken(cfg, token); err == nil {
		t.Fatal("expected verification to fail for wrong issuer")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"data":{"id":"user_2abc"}}`)
	sig := SignWebhookPayload("whsec", body)

	if err := VerifyWebhookSignature("whsec", body, sig); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
	if err := VerifyWebhookSignature("whsec", body, "sha256="+sig); err != nil {
		t.Fatalf("expected prefixed signature to verify, got %v", err)
	}
	if err := VerifyWebhookSignature("whsec", []byte("tampered"), sig); err == nil {
		t.Fatal("expected tampered body to fail verification")
	}
	if err := VerifyWebhookSignature("whsec", body, "zz-not-hex"); err == nil {
		t.Fatal("expected invalid hex to fail verification")
	}
	if err := VerifyWebhookSignature("", body, ""); err != nil {
		t.Fatalf("expected empty secret to skip verification, got %v", err)
	}
}
