package cpiofs_test

import (
	"bytes"
	"testing"

	"github.com/KarpelesLab/cpiofs"
)

func TestWriterBasicRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w, err := cpiofs.NewWriter(&buf, cpiofs.LeaveWriterOpen())
	if err != nil {
		t.Fatalf("NewWriter failed: %s", err)
	}

	dirEntry := &cpiofs.CpioEntry{
		InodeNumber: 1,
		FileType:    cpiofs.TypeDirectory,
		Mode:        0o755,
		NLink:       2,
		Name:        "adir",
	}
	if err := w.AddEntry(dirEntry); err != nil {
		t.Fatalf("AddEntry(dir) failed: %s", err)
	}

	content := cpiofs.BytesContent("hello, cpio")
	fileEntry := &cpiofs.CpioEntry{
		InodeNumber: 2,
		FileType:    cpiofs.TypeRegularFile,
		Mode:        0o644,
		NLink:       1,
		Name:        "adir/hello.txt",
		Length:      content.Len(),
		Data:        content,
	}
	if err := w.AddEntry(fileEntry); err != nil {
		t.Fatalf("AddEntry(file) failed: %s", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}

	data := buf.Bytes()
	if len(data) == 0 {
		t.Fatal("no data written")
	}
	if string(data[0:6]) != cpiofs.MagicNewAscii {
		t.Errorf("first entry magic = %q, want %q", data[0:6], cpiofs.MagicNewAscii)
	}

	// Reading it back should reproduce the two entries plus the trailer.
	r, err := cpiofs.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %s", err)
	}
	var names []string
	for {
		ent, err := r.Next()
		if err != nil {
			break
		}
		names = append(names, ent.Name)
	}
	if len(names) != 2 || names[0] != "adir" || names[1] != "adir/hello.txt" {
		t.Errorf("round-tripped names = %v, want [adir adir/hello.txt]", names)
	}
}

func TestWriterChecksumVariant(t *testing.T) {
	var buf bytes.Buffer
	w, err := cpiofs.NewWriter(&buf, cpiofs.WithChecksum(), cpiofs.LeaveWriterOpen())
	if err != nil {
		t.Fatalf("NewWriter failed: %s", err)
	}
	content := cpiofs.BytesContent("abc")
	ent := &cpiofs.CpioEntry{
		InodeNumber: 1,
		FileType:    cpiofs.TypeRegularFile,
		Mode:        0o644,
		NLink:       1,
		Name:        "f",
		Length:      content.Len(),
		Data:        content,
	}
	if err := w.AddEntry(ent); err != nil {
		t.Fatalf("AddEntry failed: %s", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	if string(buf.Bytes()[0:6]) != cpiofs.MagicNewAsciiChecksum {
		t.Errorf("expected checksum-variant magic, got %q", buf.Bytes()[0:6])
	}
}

func TestWriterRejectsUnnormalizedName(t *testing.T) {
	var buf bytes.Buffer
	w, _ := cpiofs.NewWriter(&buf, cpiofs.LeaveWriterOpen())
	ent := &cpiofs.CpioEntry{
		FileType: cpiofs.TypeDirectory,
		Mode:     0o755,
		NLink:    2,
		Name:     "a/./b",
	}
	if err := w.AddEntry(ent); err == nil {
		t.Error("expected error for an unnormalized name, got none")
	}
}

func TestWriterRejectsSymlinkWithoutTarget(t *testing.T) {
	var buf bytes.Buffer
	w, _ := cpiofs.NewWriter(&buf, cpiofs.LeaveWriterOpen())
	ent := &cpiofs.CpioEntry{
		FileType: cpiofs.TypeSymbolicLink,
		NLink:    1,
		Name:     "link",
	}
	if err := w.AddEntry(ent); err == nil {
		t.Error("expected error for a symlink with no target, got none")
	}
}

func TestWriterUseAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, _ := cpiofs.NewWriter(&buf, cpiofs.LeaveWriterOpen())
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}
	ent := &cpiofs.CpioEntry{FileType: cpiofs.TypeDirectory, NLink: 2, Name: "a"}
	if err := w.AddEntry(ent); err == nil {
		t.Error("expected error adding an entry after Close, got none")
	}
}
