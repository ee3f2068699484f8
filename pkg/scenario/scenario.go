package scenario

import (
	"errors"
	"fmt"

	"github.com/aos-harness/bootmenu/pkg/bootspec"
	"github.com/hashicorp/go-multierror"
	"github.com/twpayne/go-vfs/v4"
	"gopkg.in/yaml.v3"

	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
)

const (
	OpSetKernel     = "set_kernel"
	OpAddKernelArg  = "add_kernel_arg"
	OpSetHypervisor = "set_hypervisor"
	OpAddModule     = "add_module"
	OpAddModuleArg  = "add_module_arg"
	OpDelModule     = "del_module"
	OpResetModule   = "reset_module"
)

var ErrUnknownOp = errors.New("unknown scenario op")

// Step is one mutation of the boot configuration.
//
//	- op: reset_module
//	  module: init
//	  args: [nospawn]
type Step struct {
	Op     string   `yaml:"op"`
	Path   string   `yaml:"path,omitempty"`   // set_kernel, set_hypervisor
	Module string   `yaml:"module,omitempty"` // module ops
	Args   []string `yaml:"args,omitempty"`
	Arg    string   `yaml:"arg,omitempty"` // add_kernel_arg, add_module_arg
}

func (s Step) validate() error {
	switch s.Op {
	case OpSetKernel:
		if s.Path == "" {
			return fmt.Errorf("%s: missing path", s.Op)
		}
	case OpSetHypervisor:
	case OpAddKernelArg:
		if s.Arg == "" {
			return fmt.Errorf("%s: missing arg", s.Op)
		}
	case OpAddModule, OpDelModule, OpResetModule:
		if s.Module == "" {
			return fmt.Errorf("%s: missing module", s.Op)
		}
	case OpAddModuleArg:
		if s.Module == "" || s.Arg == "" {
			return fmt.Errorf("%s: needs module and arg", s.Op)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	return nil
}

// Scenario is the list of changes a test makes on top of the default boot modules.
type Scenario struct {
	Name    string `yaml:"name,omitempty"`
	Machine string `yaml:"machine,omitempty"`
	Steps   []Step `yaml:"steps"`
}

func Load(fs vfs.FS, path string) (*Scenario, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

func Decode(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}

	var allErrors error
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			allErrors = multierror.Append(allErrors, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	if allErrors != nil {
		return nil, allErrors
	}
	return s, nil
}

// Apply runs every step in order. A failing step does not stop the following ones;
// all failures are returned together.
func (s *Scenario) Apply(b *bootspec.BootSpec) error {
	var allErrors error

	for i, step := range s.Steps {
		l := internalUtils.Log.With().Int("step", i+1).Str("op", step.Op).Logger()
		if err := apply(b, step); err != nil {
			l.Warn().Err(err).Msg("Scenario step failed")
			allErrors = multierror.Append(allErrors, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err))
			continue
		}
		l.Debug().Msg("Scenario step applied")
	}

	return allErrors
}

func apply(b *bootspec.BootSpec, step Step) error {
	switch step.Op {
	case OpSetKernel:
		b.SetKernel(step.Path, step.Args...)
	case OpAddKernelArg:
		return b.AddKernelArg(step.Arg)
	case OpSetHypervisor:
		b.SetHypervisor(step.Path)
	case OpAddModule:
		return b.AddModule(step.Module, step.Args...)
	case OpAddModuleArg:
		b.AddModuleArg(step.Module, step.Arg)
	case OpDelModule:
		b.DelModule(step.Module)
	case OpResetModule:
		return b.ResetModule(step.Module, step.Args...)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
	return nil
}
