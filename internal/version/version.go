package version

import (
	"fmt"
	"runtime"
	"sort"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
)

// Set at build time with -ldflags "-X github.com/aos-harness/bootmenu/internal/version.gitCommit=...".
var (
	version   = "v0.1.0"
	gitCommit = "none"
)

// MenuFormat names the menu dialect the binary writes, so a harness can check it
// understands the output before booting anything.
const MenuFormat = "multiboot-menu.lst/v1"

func GetVersion() string {
	return version
}

// BuildInfo describes the binary and the menu it produces.
type BuildInfo struct {
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	GitCommit  string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GoVersion  string `json:"go_version,omitempty" yaml:"go_version,omitempty"`
	MenuFormat string `json:"menu_format" yaml:"menu_format"`
	// ImageArchs lists the boot architectures that get an extra image build target.
	ImageArchs []string `json:"image_archs,omitempty" yaml:"image_archs,omitempty"`
}

func Get() BuildInfo {
	return BuildInfo{
		Version:    GetVersion(),
		GitCommit:  gitCommit,
		GoVersion:  runtime.Version(),
		MenuFormat: MenuFormat,
		ImageArchs: imageArchs(),
	}
}

// Short is the one line form used by the version command, e.g. "v0.1.0+none (multiboot-menu.lst/v1)".
func (b BuildInfo) Short() string {
	return fmt.Sprintf("%s+%s (%s)", b.Version, b.GitCommit, b.MenuFormat)
}

func imageArchs() []string {
	var archs []string
	for arch := range cnst.ImageTargets() {
		archs = append(archs, arch)
	}
	sort.Strings(archs)
	return archs
}
