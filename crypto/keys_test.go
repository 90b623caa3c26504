package crypto

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	addr := key.PubKey().Address()

	decoded, err := DecodeAddress(addr.String())
	if err != nil {
		t.Fatalf("DecodeAddress(%s): %v", addr.String(), err)
	}
	if !decoded.Equal(addr) {
		t.Fatalf("round trip mismatch: got %s, want %s", decoded, addr)
	}
}

func TestZeroAddress(t *testing.T) {
	if !ZeroAddress.IsZero() {
		t.Fatalf("ZeroAddress.IsZero() = false")
	}
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	if key.PubKey().Address().IsZero() {
		t.Fatalf("generated address reported as zero")
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("not-a-bech32-string"); err == nil {
		t.Fatalf("DecodeAddress(garbage) succeeded, want error")
	}
}

func TestNewAddressRejectsWrongLength(t *testing.T) {
	if _, err := NewAddress(StreetPrefix, []byte{1, 2, 3}); err == nil {
		t.Fatalf("NewAddress(3 bytes) succeeded, want error")
	}
}
