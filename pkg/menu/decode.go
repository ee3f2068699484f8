package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
	"github.com/twpayne/go-vfs/v4"
)

var ErrNoKernel = errors.New("menu has no kernel line")

// Read reads and decodes a menu file. Errors wrap the underlying cause, os.ErrNotExist for a missing file.
func Read(fs vfs.FS, path string) (*Menu, error) {
	c, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu: %w", err)
	}

	m, err := Decode(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode parses a menu document. Unknown directives are skipped.
func Decode(c []byte) (*Menu, error) {
	m := &Menu{}
	kernelFound := false

	for n, line := range strings.Split(string(c), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		directive, rest := fields[0], fields[1:]
		switch directive {
		case cnst.DirectiveTimeout:
			if len(rest) != 1 {
				return nil, fmt.Errorf("line %d: timeout: expected 1 value, got %d", n+1, len(rest))
			}
			t, err := strconv.Atoi(rest[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: timeout: %w", n+1, err)
			}
			m.Timeout = t
		case cnst.DirectiveTitle:
			m.Title = strings.Join(rest, " ")
		case cnst.DirectiveRoot:
			m.Root = strings.Join(rest, " ")
		case cnst.DirectiveHypervisor:
			if len(rest) == 0 {
				return nil, fmt.Errorf("line %d: hypervisor: missing path", n+1)
			}
			m.Hypervisor = rest[0]
		case cnst.DirectiveKernel:
			if kernelFound {
				return nil, fmt.Errorf("line %d: kernel: found multiple kernel lines", n+1)
			}
			e, err := parseEntry(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: kernel: %w", n+1, err)
			}
			m.Kernel = e
			kernelFound = true
		case cnst.DirectiveModule:
			e, err := parseEntry(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: module: %w", n+1, err)
			}
			m.Modules = append(m.Modules, e)
		default:
			internalUtils.Log.Debug().Int("line", n+1).Str("directive", directive).Msg("Skipping unknown menu directive")
		}
	}

	if !kernelFound {
		return nil, ErrNoKernel
	}

	return m, nil
}

func parseEntry(fields []string) (Entry, error) {
	if len(fields) == 0 {
		return Entry{}, errors.New("missing path")
	}

	return Entry{Path: fields[0], Args: append([]string{}, fields[1:]...)}, nil
}
