package machine

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
	"github.com/twpayne/go-vfs/v4"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinCatalog []byte

var (
	ErrUnknownMachine = errors.New("unknown machine")
	ErrUnknownFormat  = errors.New("unknown catalog format")
)

// Profile describes a hardware or simulator target.
type Profile struct {
	Name             string   `yaml:"-" toml:"-"`
	Description      string   `yaml:"description,omitempty" toml:"description,omitempty"`
	BootArchitecture string   `yaml:"boot_arch" toml:"boot_arch"`
	PlatformName     string   `yaml:"platform" toml:"platform"`
	DefaultArgs      []string `yaml:"kernel_args,omitempty" toml:"kernel_args,omitempty"`
}

func (p Profile) BootArch() string {
	return p.BootArchitecture
}

func (p Profile) Platform() string {
	return p.PlatformName
}

// KernelArgs returns a copy of the default kernel command line.
func (p Profile) KernelArgs() []string {
	return append([]string{}, p.DefaultArgs...)
}

func (p Profile) validate() error {
	var missing []string
	if p.BootArchitecture == "" {
		missing = append(missing, "boot_arch")
	}
	if p.PlatformName == "" {
		missing = append(missing, "platform")
	}
	if len(missing) > 0 {
		return fmt.Errorf("machine %q: missing %s", p.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Catalog is a set of named machine profiles.
type Catalog struct {
	Machines map[string]Profile `yaml:"machines" toml:"machines"`
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return Decode(builtinCatalog, "yaml")
}

// Load reads a catalog file; the format is taken from the extension (.yaml, .yml or .toml).
func Load(fs vfs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	internalUtils.Log.Debug().Str("path", path).Int("machines", len(c.Machines)).Msg("Loaded machine catalog")
	return c, nil
}

func Decode(data []byte, format string) (*Catalog, error) {
	c := &Catalog{}
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, err
		}
	case "toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if c.Machines == nil {
		c.Machines = map[string]Profile{}
	}
	for name, p := range c.Machines {
		p.Name = name
		if err := p.validate(); err != nil {
			return nil, err
		}
		c.Machines[name] = p
	}
	return c, nil
}

// Merge adds the machines of other, replacing profiles with the same name.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	if c.Machines == nil {
		c.Machines = map[string]Profile{}
	}
	for name, p := range other.Machines {
		if _, ok := c.Machines[name]; ok {
			internalUtils.Log.Debug().Str("machine", name).Msg("Overriding machine profile")
		}
		c.Machines[name] = p
	}
}

func (c *Catalog) Get(name string) (Profile, error) {
	p, ok := c.Machines[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownMachine, name)
	}
	return p, nil
}

// Names returns the machine names in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Machines))
	for name := range c.Machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
