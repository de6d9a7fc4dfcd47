package typesystem

import (
	"testing"
)

func TestNumKinds(t *testing.T) {
	tests := []struct {
		num      NumKind
		bits     int
		signed   bool
		integral bool
	}{
		{NumInt8, 8, true, true},
		{NumUInt8, 8, false, true},
		{NumInt16, 16, true, true},
		{NumChar, 16, false, true},
		{NumUInt32, 32, false, true},
		{NumInt64, 64, true, true},
		{NumFloat32, 32, true, false},
		{NumFloat64, 64, true, false},
	}

	for _, tt := range tests {
		if got := tt.num.Bits(); got != tt.bits {
			t.Errorf("%d.Bits() = %d, want %d", tt.num, got, tt.bits)
		}
		if got := tt.num.Signed(); got != tt.signed {
			t.Errorf("%d.Signed() = %v, want %v", tt.num, got, tt.signed)
		}
		if got := tt.num.Integral(); got != tt.integral {
			t.Errorf("%d.Integral() = %v, want %v", tt.num, got, tt.integral)
		}
	}
}

func TestParseVisibility(t *testing.T) {
	for in, want := range map[string]Visibility{"": Public, "public": Public, "internal": Internal, "private": Private} {
		got, ok := ParseVisibility(in)
		if !ok || got != want {
			t.Errorf("ParseVisibility(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseVisibility("protected"); ok {
		t.Error("expected protected to be rejected")
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("struct"); !ok || k != KindStruct {
		t.Errorf("ParseKind(struct) = %v, %v", k, ok)
	}
	if _, ok := ParseKind("numeric"); ok {
		t.Error("numeric types are predeclared only")
	}
}
