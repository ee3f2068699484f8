package dag

import (
	"github.com/aos-harness/bootmenu/pkg/state"
	"github.com/spectrocloud-labs/herd"
)

// Register registers the steps producing the boot menu and the build target list:
// seed the default boot modules, apply the scenario, then render the menu and
// collect the targets from the result and write both out.
func Register(s *state.State, g *herd.Graph) error {
	s.EnsureRunID()

	// Nothing else can run without a boot configuration
	if err := s.LogIfErrorAndReturn(s.SeedDagStep(g), "seed boot modules"); err != nil {
		return err
	}

	s.LogIfError(s.ApplyScenarioDagStep(g), "apply scenario")

	s.LogIfError(s.RenderMenuDagStep(g), "render menu")
	s.LogIfError(s.CollectTargetsDagStep(g), "collect targets")

	s.LogIfError(s.WriteMenuDagStep(g), "write menu")
	s.LogIfError(s.WriteTargetsDagStep(g), "write targets")
	return nil
}
