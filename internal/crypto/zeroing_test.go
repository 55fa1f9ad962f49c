package crypto

import "testing"

func TestSecureZero(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	SecureZero(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("byte %d not zeroed, got %d", i, v)
		}
	}
}

func TestSecureZeroEmpty(t *testing.T) {
	SecureZero(nil)
	SecureZero([]byte{})
}

func TestSecureZeroMultiple(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5, 6}
	SecureZeroMultiple(a, b)
	for _, s := range [][]byte{a, b} {
		for _, v := range s {
			if v != 0 {
				t.Error("expected all bytes zeroed")
			}
		}
	}
}

func TestKeyMaterialLifecycle(t *testing.T) {
	original := []byte{9, 9, 9, 9}
	km := NewKeyMaterial(original)

	if km.Len() != 4 {
		t.Fatalf("expected length 4, got %d", km.Len())
	}
	if km.IsClosed() {
		t.Fatal("new KeyMaterial should not be closed")
	}

	km.Close()
	if !km.IsClosed() {
		t.Fatal("expected KeyMaterial to be closed")
	}
	if km.Bytes() != nil {
		t.Fatal("expected nil bytes after close")
	}
	if km.Len() != 0 {
		t.Fatal("expected zero length after close")
	}

	// original caller slice is untouched since NewKeyMaterial copies
	for _, v := range original {
		if v != 9 {
			t.Fatal("caller's original slice should not be mutated")
		}
	}

	km.Close() // idempotent
}
