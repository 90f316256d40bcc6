package cpiofs_test

import (
	"testing"

	"github.com/KarpelesLab/cpiofs"
)

func TestFormatUint32Hex(t *testing.T) {
	cases := map[uint32]string{
		0:          "00000000",
		1:          "00000001",
		0xDEADBEEF: "DEADBEEF",
		0xFFFFFFFF: "FFFFFFFF",
	}
	for in, want := range cases {
		got := cpiofs.FormatUint32Hex(in)
		if string(got[:]) != want {
			t.Errorf("FormatUint32Hex(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseUint32HexRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x07070100}
	for _, v := range values {
		s := cpiofs.FormatUint32Hex(v)
		got, ok := cpiofs.ParseUint32Hex(s[:])
		if !ok {
			t.Fatalf("ParseUint32Hex(%q) reported invalid", s)
		}
		if got != v {
			t.Errorf("ParseUint32Hex(%q) = %#x, want %#x", s, got, v)
		}
	}
}

func TestParseUint32HexScalarAndSWARAgree(t *testing.T) {
	cases := []string{"00000000", "deadbeef", "DEADBEEF", "07070100", "ffffffff"}
	for _, s := range cases {
		scalar, ok1 := cpiofs.ParseUint32HexScalar([]byte(s))
		if !ok1 {
			t.Fatalf("ParseUint32HexScalar(%q) reported invalid", s)
		}
		swar, ok2 := cpiofs.ParseUint32HexSWAR([]byte(s))
		if !ok2 {
			t.Fatalf("ParseUint32HexSWAR(%q) reported invalid", s)
		}
		if scalar != swar {
			t.Errorf("scalar/SWAR disagree for %q: %#x vs %#x", s, scalar, swar)
		}
	}
}

func TestParseUint32HexInvalid(t *testing.T) {
	cases := []string{"", "123", "123456789", "gggggggg", "0000000g"}
	for _, s := range cases {
		if _, ok := cpiofs.ParseUint32HexScalar([]byte(s)); ok {
			t.Errorf("ParseUint32HexScalar(%q): expected invalid, got valid", s)
		}
		if _, ok := cpiofs.ParseUint32HexSWAR([]byte(s)); ok {
			t.Errorf("ParseUint32HexSWAR(%q): expected invalid, got valid", s)
		}
	}
}

func TestParseUint64HexRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0xDEADBEEFCAFEBABE, 0xFFFFFFFFFFFFFFFF}
	for _, v := range values {
		s := cpiofs.FormatUint64Hex(v)
		got, ok := cpiofs.ParseUint64Hex(s[:])
		if !ok {
			t.Fatalf("ParseUint64Hex(%q) reported invalid", s)
		}
		if got != v {
			t.Errorf("ParseUint64Hex(%q) = %#x, want %#x", s, got, v)
		}
	}
}
