package shared

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestSymmetricEncryption(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		sealed, err := SymmetricEncrypt("sk_live_123", "server-secret")
		if err != nil {
			t.Fatalf("SymmetricEncrypt() error = %v", err)
		}
		if sealed == "sk_live_123" {
			t.Fatal("ciphertext should not equal plaintext")
		}

		got, err := SymmetricDecrypt(sealed, "server-secret")
		if err != nil {
			t.Fatalf("SymmetricDecrypt() error = %v", err)
		}
		if got != "sk_live_123" {
			t.Errorf("SymmetricDecrypt() = %q, want %q", got, "sk_live_123")
		}
	})

	t.Run("Nonce Is Random", func(t *testing.T) {
		a, _ := SymmetricEncrypt("same", "k")
		b, _ := SymmetricEncrypt("same", "k")
		if a == b {
			t.Error("expected distinct ciphertexts for repeated encryption")
		}
	})

	t.Run("Empty Secret Still Round Trips", func(t *testing.T) {
		sealed, err := SymmetricEncrypt("key", "")
		if err != nil {
			t.Fatalf("SymmetricEncrypt() error = %v", err)
		}
		got, err := SymmetricDecrypt(sealed, "")
		if err != nil || got != "key" {
			t.Errorf("SymmetricDecrypt() = %q, %v", got, err)
		}
	})

	tt := []struct {
		name    string
		encoded func(t *testing.T) string
		secret  string
	}{
		{
			name: "wrong secret",
			encoded: func(t *testing.T) string {
				s, err := SymmetricEncrypt("key", "right")
				if err != nil {
					t.Fatalf("SymmetricEncrypt() error = %v", err)
				}
				return s
			},
			secret: "wrong",
		},
		{
			name:    "not base64",
			encoded: func(*testing.T) string { return "%%%not-base64%%%" },
			secret:  "k",
		},
		{
			name:    "too short",
			encoded: func(*testing.T) string { return base64.StdEncoding.EncodeToString([]byte("short")) },
			secret:  "k",
		},
	}

	for _, tc := range tt {
		t.Run("Rejects "+tc.name, func(t *testing.T) {
			_, err := SymmetricDecrypt(tc.encoded(t), tc.secret)
			if !errors.Is(err, ErrDecryptFailed) {
				t.Errorf("expected ErrDecryptFailed, got %v", err)
			}
		})
	}
}
