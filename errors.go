package gopresentation

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) for context;
// callers compare with errors.Is.
var (
	// ErrArchiveOpenFailed means the input bytes are not a readable zip
	// archive. Fatal for the render session.
	ErrArchiveOpenFailed = errors.New("archive: open failed")

	// ErrMemberNotFound means a requested member path does not exist in
	// the archive.
	ErrMemberNotFound = errors.New("archive: member not found")

	// ErrXMLParseFailed means a member's bytes could not be parsed as XML.
	ErrXMLParseFailed = errors.New("xml: parse failed")

	// ErrInvalidPresentation means ppt/presentation.xml has no p:presentation
	// root element. Fatal for the render session.
	ErrInvalidPresentation = errors.New("presentation: missing p:presentation element")

	// ErrInvalidSlideIndex means a requested slide index is out of range.
	// Non-fatal: recorded in that slide's result only.
	ErrInvalidSlideIndex = errors.New("presentation: slide index out of range")

	// ErrRelationshipMissing means a required r:id has no matching
	// Relationship entry.
	ErrRelationshipMissing = errors.New("relationships: id not found")

	// ErrImageDecodeFailed means image bytes could not be decoded by any
	// registered format.
	ErrImageDecodeFailed = errors.New("image: decode failed")

	// ErrUnsupportedGeometry means a prstGeom name has no known path
	// synthesizer. Non-fatal: callers substitute rect.
	ErrUnsupportedGeometry = errors.New("geometry: unsupported preset")

	// ErrLayoutFailure means text layout could not be computed (e.g. no
	// usable font face). Non-fatal: callers skip the text body.
	ErrLayoutFailure = errors.New("layout: failure")
)
