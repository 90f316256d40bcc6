package cpiofs_test

import (
	"testing"

	"github.com/KarpelesLab/cpiofs"
)

func TestFileTypeToKindRoundTrip(t *testing.T) {
	pairs := []struct {
		ft cpiofs.FileType
		k  cpiofs.Kind
	}{
		{cpiofs.TypeDirectory, cpiofs.KindDirectory},
		{cpiofs.TypeRegularFile, cpiofs.KindRegularFile},
		{cpiofs.TypeSymbolicLink, cpiofs.KindSymbolicLink},
		{cpiofs.TypeCharDevice, cpiofs.KindCharDevice},
		{cpiofs.TypeBlockDevice, cpiofs.KindBlockDevice},
	}
	for _, p := range pairs {
		k, ok := p.ft.ToKind()
		if !ok {
			t.Fatalf("ToKind(%s) reported not ok", p.ft)
		}
		if k != p.k {
			t.Errorf("ToKind(%s) = %s, want %s", p.ft, k, p.k)
		}
		if k.FileType() != p.ft {
			t.Errorf("%s.FileType() = %s, want %s", k, k.FileType(), p.ft)
		}
	}
}

func TestFileTypeToKindUnsupported(t *testing.T) {
	for _, ft := range []cpiofs.FileType{cpiofs.TypeNamedPipe, cpiofs.TypeSocket} {
		if _, ok := ft.ToKind(); ok {
			t.Errorf("ToKind(%s) reported ok, want unsupported", ft)
		}
	}
}

func TestComposeModeAndExtract(t *testing.T) {
	mode := cpiofs.ComposeMode(cpiofs.TypeRegularFile, 0o644)
	if cpiofs.FileTypeFromMode(mode) != cpiofs.TypeRegularFile {
		t.Errorf("FileTypeFromMode = %s, want regular file", cpiofs.FileTypeFromMode(mode))
	}
	if cpiofs.PermFromMode(mode) != 0o644 {
		t.Errorf("PermFromMode = %o, want 0644", cpiofs.PermFromMode(mode))
	}
}

func TestDeviceNumberRawRoundTrip(t *testing.T) {
	d := cpiofs.DeviceNumber{Major: 8, Minor: 1}
	got := cpiofs.DeviceFromRaw(d.Raw())
	if got != d {
		t.Errorf("DeviceFromRaw(Raw()) = %+v, want %+v", got, d)
	}
}
