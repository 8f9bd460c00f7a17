package gopresentation

import "testing"

// TestParseCustomGeometry_TriangleScenario covers spec.md §8 scenario (c): a
// custGeom path moveTo(0,0), lnTo(100,0), lnTo(0,100), close within a 200x200
// box draws a right triangle, walked in document order (not regrouped), so
// it never turns into a quadrilateral.
func TestParseCustomGeometry_TriangleScenario(t *testing.T) {
	xml := `<a:custGeom>
  <a:pathLst>
    <a:path w="200" h="200">
      <a:moveTo><a:pt x="0" y="0"/></a:moveTo>
      <a:lnTo><a:pt x="100" y="0"/></a:lnTo>
      <a:lnTo><a:pt x="0" y="100"/></a:lnTo>
      <a:close/>
    </a:path>
  </a:pathLst>
</a:custGeom>`
	geom, err := ParseOrdered(xml)
	if err != nil {
		t.Fatalf("ParseOrdered: %v", err)
	}

	box := Rect{X: 0, Y: 0, W: 200, H: 200}
	segs := parseCustomGeometry(geom, box)

	wantKinds := []SegmentKind{SegMoveTo, SegLineTo, SegLineTo, SegClose}
	if len(segs) != len(wantKinds) {
		t.Fatalf("expected %d segments in document order, got %d: %+v", len(wantKinds), len(segs), segs)
	}
	for i, k := range wantKinds {
		if segs[i].Kind != k {
			t.Errorf("segment %d kind = %v, want %v", i, segs[i].Kind, k)
		}
	}

	if segs[0].P != (Point{0, 0}) {
		t.Errorf("moveTo = %v, want (0,0)", segs[0].P)
	}
	if segs[1].P != (Point{100, 0}) {
		t.Errorf("lnTo#1 = %v, want (100,0)", segs[1].P)
	}
	if segs[2].P != (Point{0, 100}) {
		t.Errorf("lnTo#2 = %v, want (0,100)", segs[2].P)
	}

	pts := []Point{segs[0].P, segs[1].P, segs[2].P}
	if pts[0] == pts[1] || pts[1] == pts[2] || pts[0] == pts[2] {
		t.Fatalf("triangle vertices must be distinct: %+v", pts)
	}
}
