package cpiofs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/KarpelesLab/cpiofs"
)

func TestReadArchivePreservesHardlinks(t *testing.T) {
	var buf bytes.Buffer
	w, err := cpiofs.NewWriter(&buf, cpiofs.LeaveWriterOpen())
	if err != nil {
		t.Fatalf("NewWriter failed: %s", err)
	}
	content := cpiofs.BytesContent("shared")
	entries := []*cpiofs.CpioEntry{
		{InodeNumber: 5, FileType: cpiofs.TypeRegularFile, Mode: 0o644, NLink: 2, Name: "a", Length: content.Len(), Data: content},
		{InodeNumber: 5, FileType: cpiofs.TypeRegularFile, Mode: 0o644, NLink: 2, Name: "b", Length: content.Len(), Data: content},
	}
	for _, e := range entries {
		if err := w.AddEntry(e); err != nil {
			t.Fatalf("AddEntry(%s) failed: %s", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %s", err)
	}

	fsys, err := cpiofs.New()
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	if _, err := fsys.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}

	a, err := fsys.Root().Get("a")
	if err != nil {
		t.Fatalf("Get(a) failed: %s", err)
	}
	b, err := fsys.Root().Get("b")
	if err != nil {
		t.Fatalf("Get(b) failed: %s", err)
	}
	if a.Inode() != b.Inode() {
		t.Error("archive entries sharing an inode number were not materialized as a hard link")
	}
	if a.Inode().NLink() != 2 {
		t.Errorf("nlink after read = %d, want 2", a.Inode().NLink())
	}
}

func TestWriteArchiveEmitsBodyOnce(t *testing.T) {
	fsys, err := cpiofs.New()
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	f, err := fsys.Root().CreateFile("a", cpiofs.BytesContent("shared"), false)
	if err != nil {
		t.Fatalf("CreateFile failed: %s", err)
	}
	if _, err := fsys.Root().CreateHardLink("b", f, false); err != nil {
		t.Fatalf("CreateHardLink failed: %s", err)
	}

	var buf bytes.Buffer
	if _, err := fsys.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %s", err)
	}

	r, err := cpiofs.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader failed: %s", err)
	}
	var totalBodyLen int64
	for {
		ent, err := r.Next()
		if err != nil {
			break
		}
		if ent.FileType == cpiofs.TypeRegularFile {
			totalBodyLen += ent.Length
		}
	}
	if totalBodyLen != int64(len("shared")) {
		t.Errorf("total emitted body length = %d, want %d (body must appear exactly once)", totalBodyLen, len("shared"))
	}
}

func TestWriteArchiveNonDirectoryRootRejected(t *testing.T) {
	fsys, err := cpiofs.New()
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	f, err := fsys.Root().CreateFile("f", nil, false)
	if err != nil {
		t.Fatalf("CreateFile failed: %s", err)
	}
	var buf bytes.Buffer
	err = cpiofs.WriteArchive(context.Background(), f, &buf, cpiofs.WriteOptions{})
	if err == nil {
		t.Error("expected an error writing a non-directory root, got none")
	}
}
