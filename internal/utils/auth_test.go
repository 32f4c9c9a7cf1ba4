package utils

import (
	"testing"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret-key-12345"
	user := &models.User{
		ID:             7,
		Email:          "test@boxaid.org",
		OrganisationID: 2,
	}

	token, err := GenerateToken(user, []uint{2, 3}, []string{"stock:write"}, secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	identity, err := auth.IdentityFromClaims(claims)
	if err != nil {
		t.Fatalf("Claims should build an identity: %v", err)
	}
	if identity.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, identity.Email)
	}
	if identity.OrganisationID != 2 {
		t.Errorf("Expected organisation 2, got %d", identity.OrganisationID)
	}
	if !identity.HasBase(3) || identity.HasBase(4) {
		t.Errorf("Expected base set {2,3}, got %v", identity.BaseIDs)
	}
	if !identity.HasPermission("stock:write") {
		t.Error("Expected stock:write permission")
	}

	if _, err := ValidateToken(token, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}
