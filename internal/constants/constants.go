package constants

const (
	// BuildPlaceholder is replaced in module specs with the directory of the kernel.
	BuildPlaceholder = "$BUILD"
	// DiscriminatorSep separates a module build target from its instance tag.
	DiscriminatorSep = "|"
	PathSep          = "/"

	DefaultRoot  = "(nd)"
	DefaultTitle = "Test image"

	DirectiveTimeout    = "timeout"
	DirectiveTitle      = "title"
	DirectiveRoot       = "root"
	DirectiveHypervisor = "hypervisor"
	DirectiveKernel     = "kernel"
	DirectiveModule     = "modulenounzip"
)

const (
	OpSeedBootSpec   = "seed-bootspec"
	OpApplyScenario  = "apply-scenario"
	OpRenderMenu     = "render-menu"
	OpCollectTargets = "collect-targets"
	OpWriteMenu      = "write-menu"
	OpWriteTargets   = "write-targets"
)

const (
	EnvDebug     = "BOOTMENU_DEBUG"
	EnvMachine   = "BOOTMENU_MACHINE"
	EnvMachines  = "BOOTMENU_MACHINES"
	EnvScenario  = "BOOTMENU_SCENARIO"
	EnvBootPath  = "BOOTMENU_BOOT_PATH"
	EnvRoot      = "BOOTMENU_ROOT"
	EnvMenuOut   = "BOOTMENU_MENU_OUT"
	EnvTargetOut = "BOOTMENU_TARGETS_OUT"
)

// ImageTargets maps a boot architecture to the side image every test on it needs.
// Closed table: architectures not listed here add nothing.
func ImageTargets() map[string]string {
	return map[string]string{
		"arm_gem5":     "arm_gem5_image",
		"armv7_gem5_2": "arm_gem5_image",
		"arm_fvp":      "arm_a9ve_image",
	}
}
