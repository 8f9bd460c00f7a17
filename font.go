package gopresentation

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey uniquely identifies a font face by name, size, bold, and italic.
type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache loads TrueType/OpenType fonts from system and extra directories
// and caches the resulting faces. Two faces are cached per key: a hinted
// one used for rasterizing glyphs, and an unhinted one used for layout,
// since PowerPoint measures text with ideal (unhinted) advances and
// rendering with hinted advances would shift wraps relative to measurement.
type FontCache struct {
	mu           sync.RWMutex
	dirs         []string
	fonts        map[string]*opentype.Font
	faces        map[fontKey]font.Face
	measureFaces map[fontKey]font.Face
	scanned      bool
}

// NewFontCache creates a FontCache that searches the given directories plus
// the OS default font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	dirs := append(systemFontDirs(), extraDirs...)
	return &FontCache{
		dirs:         dirs,
		fonts:        make(map[string]*opentype.Font),
		faces:        make(map[fontKey]font.Face),
		measureFaces: make(map[fontKey]font.Face),
	}
}

// GetFace returns a hinted font.Face for rendering glyphs, or the basicfont
// fallback if no matching TrueType font was found (spec.md §4.11: text must
// still be drawn, approximately, rather than silently dropped).
func (fc *FontCache) GetFace(name string, sizePt float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: sizePt, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.findFont(name, bold, italic)
	if f == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// GetMeasureFace returns an unhinted font.Face used for line-wrap and
// autofit measurement.
func (fc *FontCache) GetMeasureFace(name string, sizePt float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: sizePt, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.measureFaces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.findFont(name, bold, italic)
	if f == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}

	fc.mu.Lock()
	fc.measureFaces[key] = face
	fc.mu.Unlock()
	return face
}

// GetFaceChain tries each family in order, returning the first hinted face
// found, or basicfont.Face7x13 if none resolve to an installed font.
func (fc *FontCache) GetFaceChain(families []string, sizePt float64, bold, italic bool) font.Face {
	for _, name := range families {
		fc.ensureScanned()
		if f := fc.findFont(name, bold, italic); f != nil {
			return fc.GetFace(name, sizePt, bold, italic)
		}
	}
	return basicfont.Face7x13
}

// GetMeasureFaceChain is GetFaceChain's unhinted counterpart.
func (fc *FontCache) GetMeasureFaceChain(families []string, sizePt float64, bold, italic bool) font.Face {
	for _, name := range families {
		fc.ensureScanned()
		if f := fc.findFont(name, bold, italic); f != nil {
			return fc.GetMeasureFace(name, sizePt, bold, italic)
		}
	}
	return basicfont.Face7x13
}

func (fc *FontCache) findFont(name string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.findFontByKey(strings.ToLower(name), bold, italic)
}

func (fc *FontCache) findFontByKey(lower string, bold, italic bool) *opentype.Font {
	if bold && italic {
		for _, suffix := range []string{" bold italic", "bi", " bolditalic", "z"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if bold {
		for _, suffix := range []string{" bold", "bd", "b"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if italic {
		for _, suffix := range []string{" italic", "i", " it"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if f, ok := fc.fonts[lower]; ok {
		return f
	}
	if alias, ok := chineseFontAliases[lower]; ok {
		return fc.findFontByKey(alias, bold, italic)
	}
	return nil
}

// LoadFont parses a font file from disk and registers it under name.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scanDirDepth(dir, 0)
	}
}

const maxFontScanDepth = 3
const maxFontFileSize = 20 << 20

func (fc *FontCache) scanDirDepth(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDirDepth(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		isTTC := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isTTC && !isSingle {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if isTTC {
			fc.loadCollection(data, lower)
		} else {
			fc.loadSingleFont(data, lower)
		}
	}
}

func (fc *FontCache) loadSingleFont(data []byte, lowerFilename string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	baseName := strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))
	fc.fonts[baseName] = f
	fc.registerByFamilyName(f)
}

func (fc *FontCache) loadCollection(data []byte, lowerFilename string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	n := coll.NumFonts()
	for i := 0; i < n; i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			baseName := strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))
			fc.fonts[baseName] = f
		}
		fc.registerByFamilyName(f)
	}
}

// chineseFontAliases maps CJK font names seen in real decks to the Latin
// family name the corresponding font file is usually registered under.
var chineseFontAliases = map[string]string{
	"宋体":      "simsun",
	"黑体":      "simhei",
	"微软雅黑":    "microsoft yahei",
	"微软雅黑 ui": "microsoft yahei ui",
	"楷体":      "kaiti",
	"仿宋":      "fangsong",
	"新宋体":     "nsimsun",
	"等线":      "dengxian",
	"华文细黑":    "stxihei",
	"华文黑体":    "stheiti",
	"华文楷体":    "stkaiti",
	"华文宋体":    "stsong",
	"华文仿宋":    "stfangsong",
	"华文中宋":    "stzhongsong",
	"方正舒体":    "fzshuti",
	"方正姚体":    "fzyaoti",
	"隶书":      "lisu",
	"幼圆":      "youyuan",
}

func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	if familyName, err := f.Name(nil, sfnt.NameIDFamily); err == nil && familyName != "" {
		fc.fonts[strings.ToLower(familyName)] = f
	}
	if fullName, err := f.Name(nil, sfnt.NameIDFull); err == nil && fullName != "" {
		fc.fonts[strings.ToLower(fullName)] = f
	}
}

func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		dirs := []string{filepath.Join(windir, "Fonts")}
		if localAppData != "" {
			dirs = append(dirs, filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		home, _ := os.UserHomeDir()
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		home, _ := os.UserHomeDir()
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"))
			dirs = append(dirs, filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
