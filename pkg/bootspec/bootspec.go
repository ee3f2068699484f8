package bootspec

import (
	"sort"
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
	"github.com/aos-harness/bootmenu/pkg/menu"
)

// Machine describes the target the test image boots on.
type Machine interface {
	BootArch() string
	Platform() string
	KernelArgs() []string
}

// Module is a boot module: a build target path and its command line.
type Module struct {
	Path string
	Args []string
}

// Spec splits the stored path into build target and instance tag.
func (m Module) Spec() ModuleSpec {
	return ParseModuleSpec(m.Path)
}

// BootSpec accumulates the kernel, hypervisor and boot modules of a test image.
// It is meant to be owned by a single caller: there is no locking.
type BootSpec struct {
	machine Machine

	kernel     string
	kernelArgs []string
	hypervisor string
	modules    []*Module
}

func New(m Machine) *BootSpec {
	return &BootSpec{machine: m}
}

func (b *BootSpec) Machine() Machine {
	return b.machine
}

// Kernel returns the kernel path and a copy of its arguments. The path is empty until SetKernel.
func (b *BootSpec) Kernel() (string, []string) {
	return b.kernel, copyArgs(b.kernelArgs)
}

func (b *BootSpec) Hypervisor() string {
	return b.hypervisor
}

// Modules returns a copy of the modules in load order.
func (b *BootSpec) Modules() []Module {
	out := make([]Module, 0, len(b.modules))
	for _, m := range b.modules {
		out = append(out, Module{Path: m.Path, Args: copyArgs(m.Args)})
	}
	return out
}

// SetKernel replaces the kernel path and its arguments.
func (b *BootSpec) SetKernel(path string, args ...string) {
	internalUtils.Log.Debug().Str("kernel", path).Strs("args", args).Msg("Setting kernel")
	b.kernel = path
	b.kernelArgs = copyArgs(args)
}

func (b *BootSpec) AddKernelArg(arg string) error {
	if b.kernel == "" {
		return configError("add kernel arg", ErrKernelNotSet)
	}
	b.kernelArgs = append(b.kernelArgs, arg)
	return nil
}

// SetHypervisor sets the hypervisor to load before the kernel. An empty path removes it.
func (b *BootSpec) SetHypervisor(path string) {
	internalUtils.Log.Debug().Str("hypervisor", path).Msg("Setting hypervisor")
	b.hypervisor = path
}

// AddModule appends a module. The spec is normalized first:
//   - "$BUILD" is replaced by the kernel directory
//   - a bare name ("init") is placed in the kernel directory
//   - one leading "/" is stripped, so "/foo/bar" is stored as "foo/bar"
//
// Adding the same module twice stores it twice.
func (b *BootSpec) AddModule(spec string, args ...string) error {
	p, err := b.normalize("add module", spec)
	if err != nil {
		return err
	}

	internalUtils.Log.Debug().Str("module", p).Strs("args", args).Msg("Adding module")
	b.modules = append(b.modules, &Module{Path: p, Args: copyArgs(args)})
	return nil
}

// AddModuleArg appends arg to every module matching spec. Nothing happens when none match.
func (b *BootSpec) AddModuleArg(spec, arg string) {
	m := ParseMatcher(spec)
	for _, mod := range b.modules {
		if m.Matches(mod.Path) {
			mod.Args = append(mod.Args, arg)
		}
	}
}

// DelModule removes every module matching spec.
func (b *BootSpec) DelModule(spec string) {
	m := ParseMatcher(spec)
	kept := b.modules[:0]
	for _, mod := range b.modules {
		if m.Matches(mod.Path) {
			internalUtils.Log.Debug().Str("module", mod.Path).Str("match", m.String()).Msg("Removing module")
			continue
		}
		kept = append(kept, mod)
	}
	// drop references held past the new length
	for i := len(kept); i < len(b.modules); i++ {
		b.modules[i] = nil
	}
	b.modules = kept
}

// ResetModule replaces every module matching spec with a single new one.
// The spec is normalized before anything is removed, so a failed reset leaves the modules untouched.
func (b *BootSpec) ResetModule(spec string, args ...string) error {
	p, err := b.normalize("reset module", spec)
	if err != nil {
		return err
	}

	b.DelModule(spec)
	b.modules = append(b.modules, &Module{Path: p, Args: copyArgs(args)})
	return nil
}

// Menu builds the menu document with every path prefixed by path.
func (b *BootSpec) Menu(path, root string) (*menu.Menu, error) {
	if b.kernel == "" {
		return nil, configError("render menu", ErrKernelNotSet)
	}

	m := &menu.Menu{
		Timeout: 0,
		Title:   cnst.DefaultTitle,
		Root:    root,
		Kernel: menu.Entry{
			Path: internalUtils.JoinPath(path, b.kernel),
			Args: copyArgs(b.kernelArgs),
		},
	}
	if b.hypervisor != "" {
		m.Hypervisor = internalUtils.JoinPath(path, b.hypervisor)
	}
	for _, mod := range b.modules {
		m.Modules = append(m.Modules, menu.Entry{
			Path: internalUtils.JoinPath(path, mod.Path),
			Args: copyArgs(mod.Args),
		})
	}
	return m, nil
}

// MenuData renders the menu text with the default root.
func (b *BootSpec) MenuData(path string) (string, error) {
	return b.MenuDataWithRoot(path, cnst.DefaultRoot)
}

func (b *BootSpec) MenuDataWithRoot(path, root string) (string, error) {
	m, err := b.Menu(path, root)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// BuildTargets returns what has to be built and installed before the test runs:
// the kernel, each module target (instance tags dropped), the hypervisor and the
// image of the machine boot architecture, if it needs one. Sorted, no duplicates.
func (b *BootSpec) BuildTargets() ([]string, error) {
	if b.kernel == "" {
		return nil, configError("build targets", ErrKernelNotSet)
	}

	targets := []string{b.kernel}
	for _, mod := range b.modules {
		targets = append(targets, mod.Spec().Target())
	}
	if b.hypervisor != "" {
		targets = append(targets, b.hypervisor)
	}
	if b.machine != nil {
		if image, ok := cnst.ImageTargets()[b.machine.BootArch()]; ok {
			targets = append(targets, image)
		}
	}

	targets = internalUtils.UniqueSlice(targets)
	sort.Strings(targets)
	return targets, nil
}

func (b *BootSpec) normalize(op, spec string) (string, error) {
	if spec == "" {
		return "", configError(op, ErrEmptyModule)
	}

	if strings.Contains(spec, cnst.BuildPlaceholder) {
		dir, err := b.kernelDir(op)
		if err != nil {
			return "", err
		}
		spec = strings.ReplaceAll(spec, cnst.BuildPlaceholder, dir)
	}

	switch {
	case !strings.Contains(spec, cnst.PathSep):
		dir, err := b.kernelDir(op)
		if err != nil {
			return "", err
		}
		spec = internalUtils.JoinPath(dir, spec)
	case strings.HasPrefix(spec, cnst.PathSep):
		spec = spec[len(cnst.PathSep):]
	}

	if spec == "" {
		return "", configError(op, ErrEmptyModule)
	}
	return spec, nil
}

func (b *BootSpec) kernelDir(op string) (string, error) {
	if b.kernel == "" {
		return "", configError(op, ErrKernelNotSet)
	}
	dir := dirname(b.kernel)
	if dir == "" {
		return "", configError(op, ErrKernelDirMissing)
	}
	return dir, nil
}

func copyArgs(args []string) []string {
	return append([]string{}, args...)
}
