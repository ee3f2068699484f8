package state

import (
	"context"
	"errors"
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
	"github.com/aos-harness/bootmenu/pkg/bootspec"
	"github.com/spectrocloud-labs/herd"
)

var errNotSeeded = errors.New("boot configuration not seeded")

// SeedDagStep adds the step creating the default boot modules of the machine.
func (s *State) SeedDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpSeedBootSpec,
		append(opts, herd.WithCallback(func(_ context.Context) error {
			spec, err := bootspec.DefaultBootModules(s.Machine)
			if err != nil {
				return err
			}
			kernel, args := spec.Kernel()
			s.logger().Info().Str("kernel", kernel).Strs("args", args).Msg("Seeded default boot modules")
			s.spec = spec
			return nil
		}))...)
}

// ApplyScenarioDagStep adds the step applying the scenario changes, if any.
func (s *State) ApplyScenarioDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpApplyScenario,
		append(opts, herd.WithDeps(cnst.OpSeedBootSpec),
			herd.WithCallback(func(_ context.Context) error {
				if s.spec == nil {
					return errNotSeeded
				}
				if s.Scenario == nil {
					s.logger().Debug().Msg("No scenario, keeping default boot modules")
					return nil
				}
				s.logger().Info().Str("scenario", s.Scenario.Name).Int("steps", len(s.Scenario.Steps)).Msg("Applying scenario")
				return s.Scenario.Apply(s.spec)
			}))...)
}

// RenderMenuDagStep adds the step rendering the menu text.
func (s *State) RenderMenuDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpRenderMenu,
		append(opts, herd.WithDeps(cnst.OpApplyScenario),
			herd.WithCallback(func(_ context.Context) error {
				if s.spec == nil {
					return errNotSeeded
				}
				root := s.Root
				if root == "" {
					root = cnst.DefaultRoot
				}
				menu, err := s.spec.MenuDataWithRoot(s.BootPath, root)
				if err != nil {
					return err
				}
				s.menu = menu
				return nil
			}))...)
}

// CollectTargetsDagStep adds the step computing the build targets.
func (s *State) CollectTargetsDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpCollectTargets,
		append(opts, herd.WithDeps(cnst.OpApplyScenario),
			herd.WithCallback(func(_ context.Context) error {
				if s.spec == nil {
					return errNotSeeded
				}
				targets, err := s.spec.BuildTargets()
				if err != nil {
					return err
				}
				s.logger().Info().Strs("targets", targets).Msg("Build targets")
				s.targets = targets
				return nil
			}))...)
}

// WriteMenuDagStep adds the step writing the menu to MenuFile or Out.
func (s *State) WriteMenuDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpWriteMenu,
		append(opts, herd.WithDeps(cnst.OpRenderMenu),
			herd.WithCallback(func(_ context.Context) error {
				return s.writeOutput(s.MenuFile, s.menu)
			}))...)
}

// WriteTargetsDagStep adds the step writing one build target per line to TargetsFile or Out.
// It runs after the menu is written so both can share stdout.
func (s *State) WriteTargetsDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpWriteTargets,
		append(opts, herd.WithDeps(cnst.OpCollectTargets), herd.WithWeakDeps(cnst.OpWriteMenu),
			herd.WithCallback(func(_ context.Context) error {
				return s.writeOutput(s.TargetsFile, strings.Join(s.targets, "\n")+"\n")
			}))...)
}
