package gopresentation

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildRelsArchive(t *testing.T) *Archive {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("ppt/_rels/presentation.xml.rels", `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>
</Relationships>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	a, err := OpenArchiveBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenArchiveBytes: %v", err)
	}
	return a
}

// TestResolve_Idempotent covers spec.md §8 invariant 8: resolving the same
// (member, id) pair twice yields the same path both times.
func TestResolve_Idempotent(t *testing.T) {
	a := buildRelsArchive(t)
	defer a.Close()
	r := newRelResolver(a)

	p1, err := r.Resolve("ppt/presentation.xml", "rId1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	p2, err := r.Resolve("ppt/presentation.xml", "rId1")
	if err != nil {
		t.Fatalf("Resolve (second call): %v", err)
	}
	if p1 != p2 {
		t.Errorf("Resolve not idempotent: %q vs %q", p1, p2)
	}
	if p1 != "ppt/slides/slide1.xml" {
		t.Errorf("Resolve = %q, want ppt/slides/slide1.xml", p1)
	}
}

func TestResolve_MissingRelationship(t *testing.T) {
	a := buildRelsArchive(t)
	defer a.Close()
	r := newRelResolver(a)

	if _, err := r.Resolve("ppt/presentation.xml", "rIdDoesNotExist"); err == nil {
		t.Error("expected an error for an unknown relationship id")
	}
}

func TestAllByTypeSuffix_DocumentOrder(t *testing.T) {
	a := buildRelsArchive(t)
	defer a.Close()
	r := newRelResolver(a)

	slides := r.AllByTypeSuffix("ppt/presentation.xml", relTypeSlide)
	want := []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml"}
	if len(slides) != len(want) {
		t.Fatalf("got %d slides, want %d", len(slides), len(want))
	}
	for i, w := range want {
		if slides[i] != w {
			t.Errorf("slide %d: got %q, want %q", i, slides[i], w)
		}
	}
}

// TestFindPresentationPath_MissingRootRels covers the documented boundary
// behavior: an archive with no _rels/.rels falls back to the conventional
// path, with no error.
func TestFindPresentationPath_MissingRootRels(t *testing.T) {
	a := buildRelsArchive(t)
	defer a.Close()
	r := newRelResolver(a)

	got := r.FindPresentationPath()
	if got != "ppt/presentation.xml" {
		t.Errorf("FindPresentationPath = %q, want ppt/presentation.xml", got)
	}
}

func TestRelsPathFor(t *testing.T) {
	cases := map[string]string{
		"":                     "_rels/.rels",
		"ppt/presentation.xml": "ppt/_rels/presentation.xml.rels",
		"slide1.xml":           "_rels/slide1.xml.rels",
	}
	for in, want := range cases {
		if got := relsPathFor(in); got != want {
			t.Errorf("relsPathFor(%q) = %q, want %q", in, got, want)
		}
	}
}
