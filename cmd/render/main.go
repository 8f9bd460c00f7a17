// Command render converts every slide of a PPTX file to PNG (or JPEG)
// images on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	gopresentation "github.com/vantagics/pptxraster"
)

func main() {
	width := flag.Int("width", 1920, "output pixel width")
	format := flag.String("format", "png", "output format: png or jpeg")
	quality := flag.Int("quality", 90, "JPEG quality (1-100)")
	outDir := flag.String("out", ".", "directory to write slideNN files into")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: render [flags] <file.pptx>")
		os.Exit(2)
	}
	src := flag.Arg(0)

	data, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", src, err)
		os.Exit(1)
	}

	opts := gopresentation.DefaultRenderOptions()
	opts.Width = *width
	opts.JPEGQuality = *quality
	ext := "png"
	if *format == "jpeg" || *format == "jpg" {
		opts.Format = gopresentation.ImageFormatJPEG
		ext = "jpg"
	}

	if err := os.MkdirAll(*outDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	result, err := gopresentation.RenderPresentationBytes(context.Background(), data, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("slides: %d, successful: %d\n", result.Total, result.Successful)
	for _, slide := range result.Slides {
		if !slide.Success {
			fmt.Fprintf(os.Stderr, "slide %d failed: %s\n", slide.Index+1, slide.ErrorMessage)
			continue
		}
		outPath := filepath.Join(*outDir, fmt.Sprintf("slide%02d.%s", slide.Index+1, ext))
		if err := os.WriteFile(outPath, slide.Image.Bytes, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "slide %d: write %s: %v\n", slide.Index+1, outPath, err)
			continue
		}
		fmt.Printf("  slide %d -> %s (%dx%d, %d bytes)\n", slide.Index+1, outPath, slide.Image.Width, slide.Image.Height, len(slide.Image.Bytes))
	}

	if !result.AllSuccessful {
		os.Exit(1)
	}
}
