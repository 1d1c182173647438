package utils

import "testing"

func TestVerifyPINPlaintext(t *testing.T) {
	t.Setenv("APP_PIN_HASH", "")
	t.Setenv("APP_PIN", "4821")

	ok, err := VerifyPIN("4821")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if !ok {
		t.Error("correct PIN rejected")
	}

	ok, err = VerifyPIN("0000")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if ok {
		t.Error("wrong PIN accepted")
	}
}

func TestVerifyPINHashTakesPrecedence(t *testing.T) {
	hash, err := HashPIN("9999")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	t.Setenv("APP_PIN_HASH", hash)
	// Plaintext PIN differs: the hash must win.
	t.Setenv("APP_PIN", "4821")

	ok, err := VerifyPIN("9999")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if !ok {
		t.Error("PIN matching APP_PIN_HASH rejected")
	}

	ok, err = VerifyPIN("4821")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if ok {
		t.Error("APP_PIN accepted while APP_PIN_HASH is set")
	}
}

func TestVerifyPINUnconfigured(t *testing.T) {
	t.Setenv("APP_PIN_HASH", "")
	t.Setenv("APP_PIN", "")

	if _, err := VerifyPIN("4821"); err == nil {
		t.Error("missing configuration should be an error")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if err := ValidateSessionToken(token); err != nil {
		t.Errorf("ValidateSessionToken: %v", err)
	}

	t.Setenv("SESSION_SECRET", "different-secret")
	if err := ValidateSessionToken(token); err == nil {
		t.Error("token validated under a different secret")
	}
}
