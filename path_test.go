package cpiofs_test

import (
	"testing"

	"github.com/KarpelesLab/cpiofs"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":               ".",
		".":              ".",
		"a/./b":          "a/b",
		"a//b":           "a/b",
		"a/../b":         "b",
		"../a":           "../a",
		"/../a":          "/a",
		"/a/../../b":     "/b",
		"/a/b/":          "/a/b",
		"a/b/../../../c": "../c",
		"/":              "/",
	}
	for in, want := range cases {
		if got := cpiofs.NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePathIdentity(t *testing.T) {
	// An already-normalized path must come back as the same string value.
	for _, p := range []string{"a/b/c", "/a/b", "."} {
		if got := cpiofs.NormalizePath(p); got != p {
			t.Errorf("NormalizePath(%q) = %q, want unchanged", p, got)
		}
	}
}

func TestValidatePathRejectsNul(t *testing.T) {
	if err := cpiofs.ValidatePath("a\x00b"); err == nil {
		t.Error("expected error for NUL byte in path, got none")
	}
	if err := cpiofs.ValidatePath("a/b"); err != nil {
		t.Errorf("unexpected error for clean path: %s", err)
	}
}

func TestIsRooted(t *testing.T) {
	if !cpiofs.IsRooted("/a/b") {
		t.Error("expected /a/b to be rooted")
	}
	if cpiofs.IsRooted("a/b") {
		t.Error("expected a/b to not be rooted")
	}
}

func TestSplitPath(t *testing.T) {
	segs, err := cpiofs.SplitPath("/a/b/c")
	if err != nil {
		t.Fatalf("SplitPath failed: %s", err)
	}
	want := []string{"a", "b", "c"}
	if len(segs) != len(want) {
		t.Fatalf("SplitPath returned %v, want %v", segs, want)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, segs[i], want[i])
		}
	}
}

func TestSplitPathTooDeep(t *testing.T) {
	deep := ""
	for i := 0; i < cpiofs.MaxPathSegments+1; i++ {
		deep += "/a"
	}
	if _, err := cpiofs.SplitPath(deep); err == nil {
		t.Error("expected error for a path exceeding MaxPathSegments, got none")
	}
}

func TestCombinePath(t *testing.T) {
	cases := []struct{ a, b, want string }{
		{"a", "b", "a/b"},
		{"a/", "b", "a/b"},
		{"", "b", "b"},
		{"a", "/b", "/b"},
	}
	for _, c := range cases {
		if got := cpiofs.CombinePath(c.a, c.b); got != c.want {
			t.Errorf("CombinePath(%q, %q) = %q, want %q", c.a, c.b, got, c.want)
		}
	}
}

func TestDirBaseExt(t *testing.T) {
	if got := cpiofs.DirName("/a/b/c.txt"); got != "/a/b" {
		t.Errorf("DirName = %q, want /a/b", got)
	}
	if got := cpiofs.BaseName("/a/b/c.txt"); got != "c.txt" {
		t.Errorf("BaseName = %q, want c.txt", got)
	}
	if got := cpiofs.Ext("/a/b/c.txt"); got != ".txt" {
		t.Errorf("Ext = %q, want .txt", got)
	}
	if got := cpiofs.Ext("/a/.bashrc"); got != "" {
		t.Errorf("Ext(.bashrc) = %q, want empty", got)
	}
}
