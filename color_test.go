package gopresentation

import "testing"

// TestColorTransform_Identity covers spec.md §8 invariant 3: the empty
// transform applied to any color is the identity.
func TestColorTransform_Identity(t *testing.T) {
	cases := []RGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 18, G: 200, B: 77, A: 128},
	}
	var zero ColorTransform
	for _, c := range cases {
		got := zero.Apply(c)
		if got != c {
			t.Errorf("Apply(%v) with zero transform = %v, want %v", c, got, c)
		}
	}
}

// TestColorTransform_SchemeColorCascade covers spec.md §8 scenario (b):
// accent1 = 4472C4 with lumMod=75000/lumOff=0 resolves to RGB ≈
// (51, 85, 147), ±2 per channel.
func TestColorTransform_SchemeColorCascade(t *testing.T) {
	accent1 := ParseHex("4472C4")
	lumMod := 75000
	lumOff := 0
	tr := ColorTransform{LumMod: &lumMod, LumOff: &lumOff}

	got := tr.Apply(accent1)
	want := RGBA{R: 51, G: 85, B: 147, A: 255}
	if absDiff(got.R, want.R) > 2 || absDiff(got.G, want.G) > 2 || absDiff(got.B, want.B) > 2 {
		t.Errorf("accent1 lumMod 0.75 = %v, want %v ±2/channel", got, want)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// TestColorTransform_ChannelsStayInRange covers invariant 4: transformed
// 8-bit channels always land in [0,255] (automatic in Go's uint8, but the
// HSL round trip must not wrap).
func TestColorTransform_ChannelsStayInRange(t *testing.T) {
	lumMod := 150000 // 150%
	lumOff := 20000   // +20%
	tr := ColorTransform{LumMod: &lumMod, LumOff: &lumOff}
	for _, c := range []RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}} {
		got := tr.Apply(c)
		if got.R > 255 || got.G > 255 || got.B > 255 {
			t.Errorf("channel overflow for %v: %v", c, got)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []RGBA{
		{R: 0, G: 0, B: 0, A: 0},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 18, G: 52, B: 86, A: 171},
	} {
		got := ParseHex(c.FormatHex())
		if got != c {
			t.Errorf("ParseHex(FormatHex(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestParseHex_ShortForm(t *testing.T) {
	got := ParseHex("FF0000")
	want := RGBA{R: 255, G: 0, B: 0, A: 255}
	if got != want {
		t.Errorf("ParseHex(\"FF0000\") = %v, want %v", got, want)
	}
}

func TestPercentDecimalRoundTrip(t *testing.T) {
	if percentToDecimal(100000) != 1.0 {
		t.Errorf("percentToDecimal(100000) = %v, want 1.0", percentToDecimal(100000))
	}
	if decimalToPercent(1.0) != 100000 {
		t.Errorf("decimalToPercent(1.0) = %v, want 100000", decimalToPercent(1.0))
	}
}

func TestIsDark(t *testing.T) {
	if !IsDark(RGBA{R: 0, G: 0, B: 0, A: 255}) {
		t.Error("black should be dark")
	}
	if IsDark(RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("white should not be dark")
	}
}
