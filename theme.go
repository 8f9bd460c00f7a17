package gopresentation

// ColorScheme holds the 12 scheme colors a theme defines, per spec.md §3.
type ColorScheme struct {
	Dk1, Lt1, Dk2, Lt2                         RGBA
	Accent1, Accent2, Accent3                  RGBA
	Accent4, Accent5, Accent6                  RGBA
	Hlink, FolHlink                            RGBA
}

// FontScheme holds the major/minor, latin/ea/cs font scheme entries.
type FontScheme struct {
	MajorLatin, MajorEA, MajorCS string
	MinorLatin, MinorEA, MinorCS string
}

// Theme is the resolved theme record: colors, fonts, and an indexed
// sequence of background fill colors taken from fmtScheme.bgFillStyleLst.
type Theme struct {
	Colors      ColorScheme
	Fonts       FontScheme
	BgFillStyle []RGBA
}

// defaultColorScheme is the documented Office default palette, used when a
// theme (or any of its color entries) cannot be resolved.
func defaultColorScheme() ColorScheme {
	return ColorScheme{
		Dk1:     RGBA{0, 0, 0, 255},
		Lt1:     RGBA{255, 255, 255, 255},
		Dk2:     ParseHex("1F497D"),
		Lt2:     ParseHex("EEECE1"),
		Accent1: ParseHex("4472C4"),
		Accent2: ParseHex("ED7D31"),
		Accent3: ParseHex("A5A5A5"),
		Accent4: ParseHex("FFC000"),
		Accent5: ParseHex("5B9BD5"),
		Accent6: ParseHex("70AD47"),
		Hlink:   ParseHex("0563C1"),
		FolHlink: ParseHex("954F72"),
	}
}

func defaultFontScheme() FontScheme {
	return FontScheme{
		MajorLatin: "Calibri Light",
		MajorEA:    "",
		MajorCS:    "",
		MinorLatin: "Calibri",
		MinorEA:    "",
		MinorCS:    "",
	}
}

func defaultTheme() Theme {
	return Theme{
		Colors: defaultColorScheme(),
		Fonts:  defaultFontScheme(),
	}
}

// lookupSchemeColor maps a schemeClr val to a concrete color. "phClr" is
// the group/style placeholder sentinel (spec.md §4.5): the caller must
// have a substitution value ready, since the placeholder itself carries no
// color.
func lookupSchemeColor(scheme *ColorScheme, name string, phClr *RGBA) (RGBA, bool) {
	if name == "phClr" {
		if phClr != nil {
			return *phClr, true
		}
		return RGBA{}, false
	}
	if scheme == nil {
		d := defaultColorScheme()
		scheme = &d
	}
	switch name {
	case "dk1", "tx1":
		return scheme.Dk1, true
	case "lt1", "bg1":
		return scheme.Lt1, true
	case "dk2", "tx2":
		return scheme.Dk2, true
	case "lt2", "bg2":
		return scheme.Lt2, true
	case "accent1":
		return scheme.Accent1, true
	case "accent2":
		return scheme.Accent2, true
	case "accent3":
		return scheme.Accent3, true
	case "accent4":
		return scheme.Accent4, true
	case "accent5":
		return scheme.Accent5, true
	case "accent6":
		return scheme.Accent6, true
	case "hlink":
		return scheme.Hlink, true
	case "folHlink":
		return scheme.FolHlink, true
	}
	return RGBA{}, false
}

// resolveTheme locates and parses the theme for a presentation: finds the
// first slide master via the presentation rels, follows its theme rel, and
// falls back to ppt/theme/theme1.xml. Any missing element substitutes the
// documented Office defaults (spec.md §4.6), never erroring.
func resolveTheme(archive *Archive, rels *relResolver, presentationPath string) Theme {
	themePath := ""
	if masterPath, ok := firstSlideMasterPath(archive, rels, presentationPath); ok {
		if p, ok := rels.ResolveByTypeSuffix(masterPath, relTypeTheme); ok {
			themePath = p
		}
	}
	if themePath == "" {
		themePath = "ppt/theme/theme1.xml"
	}
	if !archive.Exists(themePath) {
		return defaultTheme()
	}
	text, err := archive.ReadText(themePath)
	if err != nil {
		return defaultTheme()
	}
	root, err := ParseOrdered(text)
	if err != nil {
		return defaultTheme()
	}
	return parseThemeXML(root)
}

func firstSlideMasterPath(archive *Archive, rels *relResolver, presentationPath string) (string, bool) {
	paths := rels.AllByTypeSuffix(presentationPath, relTypeSlideMaster)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

func parseThemeXML(root *Node) Theme {
	th := defaultTheme()
	themeElements := root.Child("a:themeElements")
	if themeElements == nil {
		return th
	}
	if clrScheme := themeElements.Child("a:clrScheme"); clrScheme != nil {
		th.Colors = parseColorScheme(clrScheme)
	}
	if fontScheme := themeElements.Child("a:fontScheme"); fontScheme != nil {
		th.Fonts = parseFontScheme(fontScheme)
	}
	if fmtScheme := themeElements.Child("a:fmtScheme"); fmtScheme != nil {
		if bgLst := fmtScheme.Child("a:bgFillStyleLst"); bgLst != nil {
			th.BgFillStyle = parseBgFillStyleList(bgLst, &th.Colors)
		}
	}
	return th
}

// scheme color slot tag names in document order within a:clrScheme.
var schemeColorSlots = []string{"dk1", "lt1", "dk2", "lt2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6", "hlink", "folHlink"}

func parseColorScheme(n *Node) ColorScheme {
	cs := defaultColorScheme()
	assign := func(slot string, v RGBA) {
		switch slot {
		case "dk1":
			cs.Dk1 = v
		case "lt1":
			cs.Lt1 = v
		case "dk2":
			cs.Dk2 = v
		case "lt2":
			cs.Lt2 = v
		case "accent1":
			cs.Accent1 = v
		case "accent2":
			cs.Accent2 = v
		case "accent3":
			cs.Accent3 = v
		case "accent4":
			cs.Accent4 = v
		case "accent5":
			cs.Accent5 = v
		case "accent6":
			cs.Accent6 = v
		case "hlink":
			cs.Hlink = v
		case "folHlink":
			cs.FolHlink = v
		}
	}
	for _, slot := range schemeColorSlots {
		slotNode := n.Child("a:" + slot)
		if slotNode == nil {
			continue
		}
		if v, ok := resolveColorNode(slotNode, nil, nil); ok {
			assign(slot, v)
		}
	}
	return cs
}

func parseFontScheme(n *Node) FontScheme {
	fs := defaultFontScheme()
	readTriplet := func(tag string) (latin, ea, cs string) {
		t := n.Child(tag)
		if t == nil {
			return
		}
		if lat := t.Child("a:latin"); lat != nil {
			latin = lat.AttrOr("typeface", "")
		}
		if e := t.Child("a:ea"); e != nil {
			ea = e.AttrOr("typeface", "")
		}
		if c := t.Child("a:cs"); c != nil {
			cs = c.AttrOr("typeface", "")
		}
		return
	}
	if lat, ea, cs := readTriplet("a:majorFont"); lat != "" {
		fs.MajorLatin, fs.MajorEA, fs.MajorCS = lat, ea, cs
	}
	if lat, ea, cs := readTriplet("a:minorFont"); lat != "" {
		fs.MinorLatin, fs.MinorEA, fs.MinorCS = lat, ea, cs
	}
	return fs
}

// parseBgFillStyleList extracts an indexed sequence of background colors:
// solid fills taken literally, gradient fills reduced to their first stop.
func parseBgFillStyleList(n *Node, scheme *ColorScheme) []RGBA {
	var out []RGBA
	for _, child := range n.Children {
		switch child.Name {
		case "a:solidFill":
			if v, ok := resolveColorNode(child, scheme, nil); ok {
				out = append(out, v)
			}
		case "a:gradFill":
			if gs := child.Child("a:gsLst"); gs != nil {
				stops := gs.ChildrenNamed("a:gs")
				if len(stops) > 0 {
					if v, ok := resolveColorNode(stops[0], scheme, nil); ok {
						out = append(out, v)
					}
				}
			}
		}
	}
	return out
}
