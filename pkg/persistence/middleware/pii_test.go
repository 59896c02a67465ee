package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
)

func TestRedaction_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewRedaction([]string{"password", "ssn"})
	if err != nil {
		t.Fatal(err)
	}
	secure := mw(underlying)

	ctx := context.Background()
	value := domain.Context{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
	}

	if err := secure.Save(ctx, "facebook:1", value); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if value["user_password"] != "secret123" {
		t.Error("Middleware modified the caller's context")
	}
	if value["details"].(map[string]any)["ssn_number"] != "999-99-9999" {
		t.Error("Middleware modified a nested map of the caller's context")
	}

	stored, err := underlying.Load(ctx, "facebook:1")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored["username"] != "jdoe" {
		t.Error("Username shouldn't be masked")
	}
	if stored["user_password"] != middleware.Mask {
		t.Errorf("Password should be masked, got: %v", stored["user_password"])
	}
	details := stored["details"].(map[string]any)
	if details["ssn_number"] != middleware.Mask {
		t.Errorf("Nested SSN should be masked, got: %v", details["ssn_number"])
	}
	if details["address"] != "123 St" {
		t.Errorf("Address shouldn't be masked, got: %v", details["address"])
	}
}

func TestRedaction_InvalidPattern(t *testing.T) {
	if _, err := middleware.NewRedaction([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestWrap_OrderIsOutermostFirst(t *testing.T) {
	underlying := memory.NewStore()
	redact, err := middleware.NewRedaction([]string{"token"})
	if err != nil {
		t.Fatal(err)
	}
	encrypt, err := middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if err != nil {
		t.Fatal(err)
	}

	store := middleware.Wrap(underlying, redact, encrypt)

	ctx := context.Background()
	if err := store.Save(ctx, "k", domain.Context{"token": "abc", "name": "ana"}); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if loaded["token"] != middleware.Mask || loaded["name"] != "ana" {
		t.Errorf("Expected redacted then encrypted context, got %v", loaded)
	}
}
