package stock

import (
	"testing"

	"github.com/boxaid/boxaid/internal/models"
)

func TestMintLabelDistinct(t *testing.T) {
	const n = 10000

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		label := MintLabel()
		if len(label) == 0 || len(label) > models.BoxLabelLength {
			t.Fatalf("Label %q exceeds length bound %d", label, models.BoxLabelLength)
		}
		if seen[label] {
			t.Fatalf("Label %q minted twice within %d mints", label, n)
		}
		seen[label] = true
	}
}

func TestMintQrCode(t *testing.T) {
	code := MintQrCode()
	if len(code) != 32 {
		t.Errorf("Expected 32-character code, got %d: %s", len(code), code)
	}
	if code == MintQrCode() {
		t.Error("Consecutive codes should differ")
	}
}
