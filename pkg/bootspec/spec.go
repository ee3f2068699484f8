package bootspec

import (
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
)

// ModuleSpec is a stored module path split into the build target and the optional
// instance tag written after "|". Several tagged instances of one target can be
// loaded while the target is built once.
type ModuleSpec struct {
	Base          string
	Discriminator string
	Tagged        bool
}

func ParseModuleSpec(p string) ModuleSpec {
	base, tag, found := strings.Cut(p, cnst.DiscriminatorSep)
	return ModuleSpec{Base: base, Discriminator: tag, Tagged: found}
}

// Target is the build target that produces the module binary.
func (s ModuleSpec) Target() string {
	return s.Base
}

func (s ModuleSpec) String() string {
	if !s.Tagged {
		return s.Base
	}
	return s.Base + cnst.DiscriminatorSep + s.Discriminator
}

type matchKind int

const (
	matchShortName matchKind = iota
	matchFullPath
)

// Matcher selects stored modules either by full path or by their last path segment.
type Matcher struct {
	kind  matchKind
	value string
}

func FullPath(p string) Matcher {
	return Matcher{kind: matchFullPath, value: p}
}

func ShortName(name string) Matcher {
	return Matcher{kind: matchShortName, value: name}
}

// ParseMatcher picks FullPath when spec contains a separator and ShortName otherwise.
func ParseMatcher(spec string) Matcher {
	if strings.Contains(spec, cnst.PathSep) {
		return FullPath(spec)
	}
	return ShortName(spec)
}

// Matches compares against the raw stored path, instance tag included.
func (m Matcher) Matches(stored string) bool {
	if m.kind == matchFullPath {
		return stored == m.value
	}
	return lastSegment(stored) == m.value
}

func (m Matcher) String() string {
	if m.kind == matchFullPath {
		return "path:" + m.value
	}
	return "name:" + m.value
}

func lastSegment(p string) string {
	if i := strings.LastIndex(p, cnst.PathSep); i >= 0 {
		return p[i+1:]
	}
	return p
}

// dirname returns everything before the last separator, trailing separators
// removed unless the directory is the root itself. "cpu" has no directory.
func dirname(p string) string {
	i := strings.LastIndex(p, cnst.PathSep)
	if i < 0 {
		return ""
	}
	head := p[:i+1]
	if strings.Trim(head, cnst.PathSep) != "" {
		head = strings.TrimRight(head, cnst.PathSep)
	}
	return head
}
