package gopresentation

import "fmt"

const defaultSlideWidthEMU = 9144000
const defaultSlideHeightEMU = 6858000

// SlideRef is one p:sldIdLst/p:sldId entry: its relationship id and the
// slide member path it resolves to.
type SlideRef struct {
	RID    string
	Member string
}

// Presentation is an opened PPTX package: its archive, relationship
// resolver, resolved theme, and the ordered list of slides.
type Presentation struct {
	archive          *Archive
	rels             *relResolver
	presentationPath string
	SlideWidthEMU    int64
	SlideHeightEMU   int64
	Slides           []SlideRef
	Theme            Theme
}

// OpenPresentation opens data as a PPTX package and parses its
// presentation.xml, per spec.md §4.1-§4.19 ordering: archive first, then
// relationships, then the presentation root, then theme.
func OpenPresentation(data []byte) (*Presentation, error) {
	archive, err := OpenArchiveBytes(data)
	if err != nil {
		return nil, err
	}
	return openPresentationFromArchive(archive)
}

// OpenPresentationFile opens a PPTX file from disk.
func OpenPresentationFile(path string) (*Presentation, error) {
	archive, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	return openPresentationFromArchive(archive)
}

func openPresentationFromArchive(archive *Archive) (*Presentation, error) {
	rels := newRelResolver(archive)
	presentationPath := rels.FindPresentationPath()

	text, err := archive.ReadText(presentationPath)
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}
	root, err := ParseOrdered(text)
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("%w: %v", ErrXMLParseFailed, err)
	}
	if root.Name != "p:presentation" {
		archive.Close()
		return nil, ErrInvalidPresentation
	}

	p := &Presentation{
		archive:          archive,
		rels:             rels,
		presentationPath: presentationPath,
		SlideWidthEMU:    defaultSlideWidthEMU,
		SlideHeightEMU:   defaultSlideHeightEMU,
	}
	if sz := root.Child("p:sldSz"); sz != nil {
		p.SlideWidthEMU = int64(atoiOr(sz.AttrOr("cx", "0"), int(defaultSlideWidthEMU)))
		p.SlideHeightEMU = int64(atoiOr(sz.AttrOr("cy", "0"), int(defaultSlideHeightEMU)))
	}
	if lst := root.Child("p:sldIdLst"); lst != nil {
		for _, sldId := range lst.ChildrenNamed("p:sldId") {
			rid := sldId.AttrOr("r:id", "")
			if rid == "" {
				continue
			}
			member, err := rels.Resolve(presentationPath, rid)
			if err != nil {
				continue
			}
			p.Slides = append(p.Slides, SlideRef{RID: rid, Member: member})
		}
	}

	p.Theme = resolveTheme(archive, rels, presentationPath)
	return p, nil
}

// Close releases the underlying archive and its member caches.
func (p *Presentation) Close() error {
	return p.archive.Close()
}

// SlideCount returns the number of slides in the deck.
func (p *Presentation) SlideCount() int { return len(p.Slides) }
