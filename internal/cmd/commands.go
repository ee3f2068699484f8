package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cnst "github.com/aos-harness/bootmenu/internal/constants"
	"github.com/aos-harness/bootmenu/internal/utils"
	"github.com/aos-harness/bootmenu/internal/version"
	"github.com/aos-harness/bootmenu/pkg/dag"
	"github.com/aos-harness/bootmenu/pkg/machine"
	"github.com/aos-harness/bootmenu/pkg/menu"
	"github.com/aos-harness/bootmenu/pkg/scenario"
	"github.com/aos-harness/bootmenu/pkg/state"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"
	"github.com/urfave/cli/v2"
)

var Flags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "debug",
		EnvVars: []string{cnst.EnvDebug},
	},
	&cli.BoolFlag{
		Name:  "dry-run",
		Usage: "print the steps and exit",
	},
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "file with BOOTMENU_* defaults for flags that are not set",
	},
	&cli.StringFlag{
		Name:    "machine",
		Aliases: []string{"m"},
		Usage:   "machine profile name, see the machines command",
		EnvVars: []string{cnst.EnvMachine},
	},
	&cli.StringFlag{
		Name:    "machines",
		Usage:   "extra machine catalog (.yaml or .toml)",
		EnvVars: []string{cnst.EnvMachines},
	},
	&cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "scenario file with changes to the default boot modules",
		EnvVars: []string{cnst.EnvScenario},
	},
	&cli.StringFlag{
		Name:    "boot-path",
		Usage:   "prefix for every path in the menu",
		EnvVars: []string{cnst.EnvBootPath},
	},
	&cli.StringFlag{
		Name:    "root",
		Value:   cnst.DefaultRoot,
		EnvVars: []string{cnst.EnvRoot},
	},
	&cli.StringFlag{
		Name:    "menu-out",
		Usage:   "write the menu here instead of stdout",
		EnvVars: []string{cnst.EnvMenuOut},
	},
	&cli.StringFlag{
		Name:    "targets-out",
		Usage:   "write the build targets here instead of stdout",
		EnvVars: []string{cnst.EnvTargetOut},
	},
}

var flagEnv = map[string]string{
	"machine":     cnst.EnvMachine,
	"machines":    cnst.EnvMachines,
	"scenario":    cnst.EnvScenario,
	"boot-path":   cnst.EnvBootPath,
	"root":        cnst.EnvRoot,
	"menu-out":    cnst.EnvMenuOut,
	"targets-out": cnst.EnvTargetOut,
}

// Generate renders the menu and the build targets for the selected machine.
func Generate(c *cli.Context) (err error) {
	env := map[string]string{}
	if f := c.String("env-file"); f != "" {
		env, err = utils.ReadEnv(f)
		if err != nil {
			return fmt.Errorf("reading env file: %w", err)
		}
	}
	value := func(name string) string {
		if !c.IsSet(name) {
			if v, ok := env[flagEnv[name]]; ok {
				return v
			}
		}
		return c.String(name)
	}

	catalog, err := loadCatalog(value("machines"))
	if err != nil {
		return err
	}

	var sc *scenario.Scenario
	if p := value("scenario"); p != "" {
		sc, err = scenario.Load(vfs.OSFS, p)
		if err != nil {
			return err
		}
	}

	name := value("machine")
	if name == "" && sc != nil {
		name = sc.Machine
	}
	if name == "" {
		return errors.New("no machine given, use --machine or set machine in the scenario")
	}
	profile, err := catalog.Get(name)
	if err != nil {
		return err
	}

	s := &state.State{
		FS:          vfs.OSFS,
		Machine:     profile,
		Scenario:    sc,
		BootPath:    value("boot-path"),
		Root:        value("root"),
		MenuFile:    value("menu-out"),
		TargetsFile: value("targets-out"),
	}

	g := herd.DAG(herd.EnableInit)
	if err = dag.Register(s, g); err != nil {
		return err
	}

	utils.Log.Info().Str("run", s.RunID).Msg(s.WriteDAG(g))

	// Once we print the dag we can exit already
	if c.Bool("dry-run") {
		return nil
	}

	err = s.Run(context.Background(), g)
	utils.Log.Debug().Str("run", s.RunID).Msg(s.WriteDAG(g))
	return err
}

var Commands = []*cli.Command{
	{
		Name:  "machines",
		Usage: "list the known machine profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "machines",
				Usage:   "extra machine catalog (.yaml or .toml)",
				EnvVars: []string{cnst.EnvMachines},
			},
		},
		Action: func(c *cli.Context) error {
			catalog, err := loadCatalog(c.String("machines"))
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				p, _ := catalog.Get(name)
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\n", name, p.BootArch(), p.Platform(), strings.Join(p.KernelArgs(), " "))
			}
			return nil
		},
	},
	{
		Name:      "decode",
		Usage:     "print the build targets referenced by an existing menu",
		ArgsUsage: "MENU",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "boot-path",
				Usage: "prefix to strip from the menu paths",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected exactly one menu file")
			}
			m, err := menu.Read(vfs.OSFS, c.Args().First())
			if err != nil {
				return err
			}
			utils.Log.Debug().Str("kernel", m.Kernel.Path).Int("modules", len(m.Modules)).Msg("Decoded menu")
			for _, t := range m.Targets(c.String("boot-path")) {
				fmt.Fprintln(c.App.Writer, t)
			}
			return nil
		},
	},
	{
		Name:  "version",
		Usage: "version",
		Action: func(c *cli.Context) error {
			v := version.Get()
			utils.Log.Debug().Str("commit", v.GitCommit).Str("compiled with", v.GoVersion).Strs("image archs", v.ImageArchs).Msg("bootmenu")
			_, err := fmt.Fprintln(c.App.Writer, v.Short())
			return err
		},
	},
}

func loadCatalog(extra string) (*machine.Catalog, error) {
	catalog, err := machine.Builtin()
	if err != nil {
		return nil, err
	}
	if extra != "" {
		other, err := machine.Load(vfs.OSFS, extra)
		if err != nil {
			return nil, err
		}
		catalog.Merge(other)
	}
	return catalog, nil
}
