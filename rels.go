package gopresentation

import (
	"fmt"
	"path"
	"strings"
)

// Relationship is one entry from a .rels file: {id, type, target}.
type Relationship struct {
	ID     string
	Type   string
	Target string
	// TargetMode is "External" for hyperlinks/external refs; "" (internal)
	// otherwise. Out-of-scope targets (e.g. hyperlinks) are still parsed so
	// callers can distinguish and skip them deliberately.
	TargetMode string
}

// relResolver resolves relationship ids, caching the parsed relationships
// of each .rels member it has read.
type relResolver struct {
	archive *Archive
	cache   map[string][]Relationship // keyed by .rels member path
}

func newRelResolver(a *Archive) *relResolver {
	return &relResolver{archive: a, cache: make(map[string][]Relationship)}
}

// relsPathFor returns the conventional .rels path for a member:
// "dir/name.ext" -> "dir/_rels/name.ext.rels". The empty/root member
// resolves to the package-level "_rels/.rels".
func relsPathFor(member string) string {
	if member == "" || member == "." {
		return "_rels/.rels"
	}
	dir := path.Dir(member)
	base := path.Base(member)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// load parses (and caches) the .rels file for member. A missing .rels file
// is not an error: it yields an empty relationship set, per spec.md §4.3.
func (r *relResolver) load(member string) ([]Relationship, error) {
	relsPath := relsPathFor(member)
	if cached, ok := r.cache[relsPath]; ok {
		return cached, nil
	}
	if !r.archive.Exists(relsPath) {
		r.cache[relsPath] = nil
		return nil, nil
	}
	text, err := r.archive.ReadText(relsPath)
	if err != nil {
		r.cache[relsPath] = nil
		return nil, nil
	}
	root, err := ParseOrdered(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrXMLParseFailed, relsPath, err)
	}
	var rels []Relationship
	for _, c := range root.ChildrenNamed("Relationship") {
		rels = append(rels, Relationship{
			ID:         c.AttrOr("Id", ""),
			Type:       c.AttrOr("Type", ""),
			Target:     c.AttrOr("Target", ""),
			TargetMode: c.AttrOr("TargetMode", ""),
		})
	}
	r.cache[relsPath] = rels
	return rels, nil
}

// byID finds the relationship with the given r:id within member's rels.
func (r *relResolver) byID(member, id string) (Relationship, bool) {
	rels, _ := r.load(member)
	for _, rel := range rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// resolveTarget resolves a relative (or absolute) Target string against the
// directory of base into an absolute archive member path, normalizing ".."
// segments. Absolute targets (leading "/") are returned unchanged (minus
// the leading slash, since Archive paths are not slash-prefixed).
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return normalizeMemberPath(target)
	}
	dir := path.Dir(base)
	joined := path.Join(dir, target)
	return normalizeMemberPath(joined)
}

// Resolve resolves the r:id referenced from member to an absolute archive
// path. Resolution is idempotent: the same (member, id) pair always yields
// the same path, since it is a pure function of the cached rels file.
func (r *relResolver) Resolve(member, id string) (string, error) {
	rel, ok := r.byID(member, id)
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrRelationshipMissing, id, member)
	}
	return resolveTarget(member, rel.Target), nil
}

// ResolveByTypeSuffix returns the first relationship under member whose
// Type ends with suffix (e.g. "/officeDocument"), resolved to an absolute
// path. Suffix matching (not substring) keeps
// ".../extended-properties" from matching ".../officeDocument" by accident.
func (r *relResolver) ResolveByTypeSuffix(member, suffix string) (string, bool) {
	rels, _ := r.load(member)
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, suffix) {
			return resolveTarget(member, rel.Target), true
		}
	}
	return "", false
}

// AllByTypeSuffix returns every relationship under member whose Type ends
// with suffix, resolved to absolute paths, in rels-file document order.
func (r *relResolver) AllByTypeSuffix(member, suffix string) []string {
	rels, _ := r.load(member)
	var out []string
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, suffix) {
			out = append(out, resolveTarget(member, rel.Target))
		}
	}
	return out
}

// FindPresentationPath locates ppt/presentation.xml (or wherever the root
// officeDocument relationship actually points) via _rels/.rels, falling
// back to the conventional path when the root rels file is itself missing.
func (r *relResolver) FindPresentationPath() string {
	if p, ok := r.ResolveByTypeSuffix("", "/officeDocument"); ok {
		return p
	}
	return "ppt/presentation.xml"
}

// relationship type-suffix constants used throughout the pipeline.
const (
	relTypeSlideLayout = "/slideLayout"
	relTypeSlideMaster = "/slideMaster"
	relTypeTheme       = "/theme"
	relTypeImage       = "/image"
	relTypeChart       = "/chart"
	relTypeSlide       = "/slide"
)
