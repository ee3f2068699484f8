package bootspec

import "fmt"

// DefaultBootModules returns the configuration every test starts from: the CPU driver
// for the machine platform as kernel, the same binary as a module and init.
func DefaultBootModules(m Machine) (*BootSpec, error) {
	arch := m.BootArch()
	cpu := fmt.Sprintf("%s/sbin/cpu_%s", arch, m.Platform())

	b := New(m)
	b.SetKernel(cpu, m.KernelArgs()...)

	if err := b.AddModule(cpu, m.KernelArgs()...); err != nil {
		return nil, err
	}
	if err := b.AddModule(fmt.Sprintf("%s/sbin/init", arch)); err != nil {
		return nil, err
	}

	return b, nil
}
