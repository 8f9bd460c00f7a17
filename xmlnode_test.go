package gopresentation

import "testing"

// TestParseOrdered_PreservesDocumentOrder covers spec.md §8 invariant 2: the
// ordered view's children are a stable permutation of the map view's
// children (same multiset, same document order), exercised on a shape tree
// with repeated and singleton tags.
func TestParseOrdered_PreservesDocumentOrder(t *testing.T) {
	xmlText := `<p:spTree>
		<p:nvGrpSpPr/>
		<p:sp><p:nvSpPr><p:cNvPr id="1" name="One"/></p:nvSpPr></p:sp>
		<p:pic><p:nvPicPr><p:cNvPr id="2" name="Pic"/></p:nvPicPr></p:pic>
		<p:sp><p:nvSpPr><p:cNvPr id="3" name="Two"/></p:nvSpPr></p:sp>
	</p:spTree>`

	root, err := ParseOrdered(xmlText)
	if err != nil {
		t.Fatalf("ParseOrdered: %v", err)
	}

	// Ordered view: document order across mixed tag names.
	wantOrder := []string{"p:nvGrpSpPr", "p:sp", "p:pic", "p:sp"}
	if len(root.Children) != len(wantOrder) {
		t.Fatalf("got %d children, want %d", len(root.Children), len(wantOrder))
	}
	for i, name := range wantOrder {
		if root.Children[i].Name != name {
			t.Errorf("child %d: got %s, want %s", i, root.Children[i].Name, name)
		}
	}

	// Map view: the two p:sp siblings collapse into a forced sequence
	// (alwaysArrayTags["p:sp"]) but keep their own document order.
	m := root.ToMap()
	sps := m.Seq("p:sp")
	if len(sps) != 2 {
		t.Fatalf("got %d p:sp entries, want 2", len(sps))
	}
	if sps[0].One("p:nvSpPr").One("p:cNvPr").Attrs["name"] != "One" {
		t.Error("first p:sp out of order")
	}
	if sps[1].One("p:nvSpPr").One("p:cNvPr").Attrs["name"] != "Two" {
		t.Error("second p:sp out of order")
	}

	pic := m.One("p:pic")
	if pic == nil || pic.One("p:nvPicPr").One("p:cNvPr").Attrs["name"] != "Pic" {
		t.Error("p:pic not found or wrong contents in map view")
	}
}

func TestNode_ChildAndAttr(t *testing.T) {
	root, err := ParseOrdered(`<a:xfrm rot="600000"><a:off x="100" y="200"/><a:ext cx="300" cy="400"/></a:xfrm>`)
	if err != nil {
		t.Fatalf("ParseOrdered: %v", err)
	}
	if v, ok := root.Attr("rot"); !ok || v != "600000" {
		t.Errorf("Attr(rot) = %q, %v", v, ok)
	}
	if root.AttrOr("missing", "default") != "default" {
		t.Error("AttrOr should fall back for a missing attribute")
	}
	off := root.Child("a:off")
	if off == nil {
		t.Fatal("expected a:off child")
	}
	if off.AttrOr("x", "") != "100" || off.AttrOr("y", "") != "200" {
		t.Errorf("unexpected a:off attrs: %+v", off.Attrs)
	}
	if root.Child("a:nonexistent") != nil {
		t.Error("expected nil for a missing child")
	}
}

func TestMapNode_SingleChildNotForcedToSequence(t *testing.T) {
	root, err := ParseOrdered(`<p:cSld><p:spTree><p:nvGrpSpPr/></p:spTree></p:cSld>`)
	if err != nil {
		t.Fatalf("ParseOrdered: %v", err)
	}
	m := root.ToMap()
	spTree := m.Children["p:spTree"]
	if _, isMap := spTree.(*MapNode); !isMap {
		t.Errorf("expected lone p:spTree child to stay a *MapNode, got %T", spTree)
	}
}

func TestParseOrdered_EmptyDocumentErrors(t *testing.T) {
	if _, err := ParseOrdered(""); err == nil {
		t.Error("expected an error for an empty document")
	}
}
