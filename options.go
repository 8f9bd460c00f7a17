package gopresentation

import (
	"image/color"
	"log"
	"os"
)

// ImageFormat is the output raster format for a rendered slide.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// LogLevel gates which Logger calls actually write, per spec.md §6.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

// PngOptimization names the optional post-encode PNG optimization profile.
// This package never runs an external optimizer itself (spec.md §4.19 step
// 5: "PNG may be post-optimized externally") — the field stays on
// RenderOptions for a caller's own pipeline stage to read; it is not copied
// into SlideResult or RenderedImage.
type PngOptimization string

const (
	PngOptNone     PngOptimization = "none"
	PngOptFast     PngOptimization = "fast"
	PngOptBalanced PngOptimization = "balanced"
	PngOptMaximum  PngOptimization = "maximum"
	PngOptWeb      PngOptimization = "web"
)

// Logger is the minimal leveled logging surface the pipeline writes
// non-fatal warnings through (spec.md §7 propagation policy: most error
// kinds log and substitute a default rather than aborting). The standard
// log package satisfies it; no third-party logger appears anywhere in the
// corpus for this domain (see DESIGN.md).
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type stdLogger struct {
	level  LogLevel
	logger *log.Logger
}

// NewStdLogger returns a Logger backed by the standard library's log
// package, writing to os.Stderr and gating output at level.
func NewStdLogger(level LogLevel) Logger {
	return &stdLogger{level: level, logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *stdLogger) Debugf(format string, args ...any) { l.logAt(LogLevelDebug, format, args...) }
func (l *stdLogger) Infof(format string, args ...any)  { l.logAt(LogLevelInfo, format, args...) }
func (l *stdLogger) Warnf(format string, args ...any)  { l.logAt(LogLevelWarn, format, args...) }
func (l *stdLogger) Errorf(format string, args ...any) { l.logAt(LogLevelError, format, args...) }

func (l *stdLogger) logAt(level LogLevel, format string, args ...any) {
	if level < l.level || l.level == LogLevelSilent {
		return
	}
	l.logger.Printf(format, args...)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// RenderOptions configures a presentation or single-slide render, per
// spec.md §6 plus the supplemented fields recorded in SPEC_FULL.md §4.C.
type RenderOptions struct {
	// Width is the output pixel width. Default 1920.
	Width int
	// Height is the output pixel height. 0 derives it from the slide's
	// aspect ratio.
	Height int
	// Format selects PNG or JPEG output. Default PNG.
	Format ImageFormat
	// JPEGQuality is the JPEG quality, 1-100. Default 90.
	JPEGQuality int
	// BackgroundColor overrides every slide's resolved background.
	BackgroundColor *color.RGBA
	// DPI is the rendering DPI for font sizing. Default 96.
	DPI float64
	// FontDirs are extra directories searched for TrueType/OpenType fonts,
	// in addition to the system font directories.
	FontDirs []string
	// FontCache allows sharing a pre-scanned FontCache across renders. If
	// nil, a new one is created from FontDirs.
	FontCache *FontCache
	// LogLevel gates diagnostic output. Default LogLevelWarn.
	LogLevel LogLevel
	// Logger overrides the default stdlib-backed logger; nil builds one
	// from LogLevel.
	Logger Logger
	// DebugMode overlays shape bounding boxes, for layout diagnosis.
	DebugMode bool
	// PngOptimization is kept here for a caller's own post-processing
	// stage; this package does not apply it and does not copy it into the
	// render results.
	PngOptimization PngOptimization
	// OverlayOpacityScale is normalized (0 or less becomes 1.0) and kept on
	// the options; the renderer does not read it, so fills are drawn with
	// their own alpha.
	OverlayOpacityScale float64
}

// DefaultRenderOptions returns the documented defaults (spec.md §6).
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Width:           1920,
		Format:          ImageFormatPNG,
		JPEGQuality:     90,
		DPI:             defaultDPI,
		LogLevel:        LogLevelWarn,
		PngOptimization: PngOptNone,
	}
}

func (o *RenderOptions) logger() Logger {
	if o == nil {
		return noopLogger{}
	}
	if o.Logger != nil {
		return o.Logger
	}
	return NewStdLogger(o.LogLevel)
}

func (o *RenderOptions) normalized() *RenderOptions {
	if o == nil {
		o = DefaultRenderOptions()
	}
	cp := *o
	if cp.Width <= 0 {
		cp.Width = 1920
	}
	if cp.JPEGQuality <= 0 || cp.JPEGQuality > 100 {
		cp.JPEGQuality = 90
	}
	if cp.DPI <= 0 {
		cp.DPI = defaultDPI
	}
	if cp.OverlayOpacityScale <= 0 {
		cp.OverlayOpacityScale = 1.0
	}
	if cp.PngOptimization == "" {
		cp.PngOptimization = PngOptNone
	}
	return &cp
}

// SlideResult is one slide's render outcome: the encoded image plus
// failure reporting per spec.md §7 ("slide result records success=false
// and a message").
type SlideResult struct {
	Index         int
	Image         *RenderedImage
	Width, Height int
	Success       bool
	ErrorMessage  string
	Err           error
}

// RenderedImage holds an already-encoded bitmap plus its pixel dimensions.
type RenderedImage struct {
	Bytes  []byte
	Format ImageFormat
	Width  int
	Height int
}

// PresentationResult aggregates every slide's outcome plus overall counts,
// per spec.md §6 "Render results."
type PresentationResult struct {
	Slides         []SlideResult
	Total          int
	Successful     int
	AllSuccessful  bool
}
