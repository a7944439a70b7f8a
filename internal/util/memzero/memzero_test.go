package memzero

import "testing"

func TestZero(t *testing.T) {
	b := []byte("xprv-secret-material")
	Zero(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("byte %d not wiped: %x", i, c)
		}
	}
	Zero(nil)
}
