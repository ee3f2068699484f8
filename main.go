package main

import (
	"fmt"
	"os"

	"github.com/aos-harness/bootmenu/internal/cmd"
	"github.com/aos-harness/bootmenu/internal/utils"
	"github.com/aos-harness/bootmenu/internal/version"
	"github.com/urfave/cli/v2"
)

// Generate the boot menu and build targets of a test image.
func main() {
	app := cli.NewApp()
	app.Name = "bootmenu"
	app.Usage = "compute the boot modules and build targets of a test image"
	app.Version = version.GetVersion()
	app.Authors = []*cli.Author{{Name: "AOS harness authors"}}
	app.Flags = cmd.Flags
	app.Before = func(c *cli.Context) error {
		utils.SetLogger(c.Bool("debug"))
		v := version.Get()
		utils.Log.Debug().Str("commit", v.GitCommit).Str("compiled with", v.GoVersion).Str("version", v.Version).Msg("bootmenu")
		return nil
	}
	app.Action = cmd.Generate
	app.Commands = cmd.Commands

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
