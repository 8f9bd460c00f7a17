package gopresentation

import (
	"math"
	"testing"
)

// TestLayoutTextBody_TextLayoutScenario covers spec.md §8 scenario (e): a
// text body with "Hello World" at size 1800 (18pt) bold, anchor ctr, in a
// 400x300 px box at the origin with default insets. One line is produced;
// the baseline sits at (containerH-contentH)/2 + ascent, and the line's
// horizontal start is at the left inset (0.1in at scale 1 == 9.6px, plus the
// paragraph's zero margin).
func TestLayoutTextBody_TextLayoutScenario(t *testing.T) {
	fonts := NewFontCache()
	wrapper := NewWordWrapper(fonts)
	scale := Scale{X: 1, Y: 1}
	bounds := Rect{X: 0, Y: 0, W: 400, H: 300}

	runProps := RunProps{SizePt: 18, Bold: true}
	tb := &TextBody{
		InsetL: defaultInsetEMU, InsetT: defaultInsetEMU / 2,
		InsetR: defaultInsetEMU, InsetB: defaultInsetEMU / 2,
		FontScale: 1.0,
		Anchor:    AnchorMiddle,
		Paragraphs: []Paragraph{{
			Align:        AlignLeft,
			DefaultProps: runProps,
			Runs:         []Run{{Kind: RunText, Text: "Hello World", Props: runProps}},
		}},
	}

	result := LayoutTextBody(tb, bounds, scale, fonts, nil, wrapper, RGBA{A: 255})
	if len(result.Runs) == 0 {
		t.Fatal("expected laid-out runs, got none")
	}
	// The wrapper emits one run per word/space token, so a single line is
	// several runs sharing one baseline.
	for _, r := range result.Runs[1:] {
		if r.Y != result.Runs[0].Y {
			t.Fatalf("expected one line (no wrap), got runs on baselines %v and %v", result.Runs[0].Y, r.Y)
		}
	}
	run := result.Runs[0]

	insetLPx := float64(defaultInsetEMU) * scale.X / emuPerInch * defaultDPI
	if diff := math.Abs(run.X - insetLPx); diff > 1 {
		t.Errorf("horizontal start = %v, want %v (0.1in * scaleX) ±1px", run.X, insetLPx)
	}

	families := resolveFamilyChain("", nil)
	face := fonts.GetMeasureFaceChain(families, 18, true, false)
	m := metricsFromFace(face, 18)

	insetTPx := float64(defaultInsetEMU/2) * scale.Y / emuPerInch * defaultDPI
	baseLH := 18 * 1.2 * defaultDPI / 72 * scale.Y // single line, lnSpc unset
	// Anchored within the inset box, whose height excludes both insets.
	shift := (bounds.H - 2*insetTPx - baseLH) / 2
	if shift < 0 {
		shift = 0
	}
	wantBaseline := insetTPx + m.AscentPx + shift
	if diff := math.Abs(run.Y - wantBaseline); diff > 1 {
		t.Errorf("baseline y = %v, want %v (middle anchor) ±1px", run.Y, wantBaseline)
	}
}
