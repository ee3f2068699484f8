package menu

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
)

// Entry is a binary loaded by the bootloader together with its command line.
type Entry struct {
	Path string
	Args []string
}

// Menu is a single entry boot menu as consumed by the test harness bootloader.
// Paths are stored as they appear in the document, i.e. already prefixed.
type Menu struct {
	Timeout    int
	Title      string
	Root       string
	Hypervisor string // empty when no hypervisor is loaded
	Kernel     Entry
	Modules    []Entry
}

// Encode writes the menu in its line format:
//
//	timeout 0
//	title Test image
//	root (nd)
//	hypervisor <path>
//	kernel <path> <args>
//	modulenounzip <path> <args>
//
// The hypervisor line is only written when set. Empty argument lists leave a trailing space.
func (m *Menu) Encode(w io.Writer) error {
	var out string
	out += fmt.Sprintf("%s %d\n", cnst.DirectiveTimeout, m.Timeout)
	out += fmt.Sprintf("%s %s\n", cnst.DirectiveTitle, m.Title)
	out += fmt.Sprintf("%s %s\n", cnst.DirectiveRoot, m.Root)
	if m.Hypervisor != "" {
		out += fmt.Sprintf("%s %s\n", cnst.DirectiveHypervisor, m.Hypervisor)
	}
	out += fmt.Sprintf("%s %s %s\n", cnst.DirectiveKernel, m.Kernel.Path, strings.Join(m.Kernel.Args, " "))
	for _, mod := range m.Modules {
		out += fmt.Sprintf("%s %s %s\n", cnst.DirectiveModule, mod.Path, strings.Join(mod.Args, " "))
	}
	_, err := io.WriteString(w, out)
	return err
}

func (m *Menu) String() string {
	var b bytes.Buffer
	_ = m.Encode(&b)
	return b.String()
}

// Targets returns the build targets referenced by the menu: kernel, hypervisor and
// modules with prefix removed and instance tags dropped. Sorted, no duplicates.
func (m *Menu) Targets(prefix string) []string {
	strip := func(p string) string {
		if prefix != "" {
			p = strings.TrimPrefix(p, internalUtils.JoinPath(prefix, ""))
		}
		base, _, _ := strings.Cut(p, cnst.DiscriminatorSep)
		return base
	}

	targets := []string{strip(m.Kernel.Path)}
	for _, mod := range m.Modules {
		targets = append(targets, strip(mod.Path))
	}
	if m.Hypervisor != "" {
		targets = append(targets, strip(m.Hypervisor))
	}

	targets = internalUtils.UniqueSlice(internalUtils.CleanupSlice(targets))
	sort.Strings(targets)
	return targets
}
