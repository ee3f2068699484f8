package cmd_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/aos-harness/bootmenu/internal/cmd"
	"github.com/aos-harness/bootmenu/internal/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/urfave/cli/v2"
)

func newApp(out *bytes.Buffer) *cli.App {
	app := cli.NewApp()
	app.Name = "bootmenu"
	app.Flags = cmd.Flags
	app.Action = cmd.Generate
	app.Commands = cmd.Commands
	app.Writer = out
	return app
}

var _ = Describe("commands", func() {
	var tmpDir string
	var out bytes.Buffer

	readFile := func(name string) string {
		c, err := os.ReadFile(filepath.Join(tmpDir, name))
		Expect(err).ToNot(HaveOccurred())
		return string(c)
	}
	writeFile := func(name, content string) string {
		p := filepath.Join(tmpDir, name)
		Expect(os.WriteFile(p, []byte(content), 0o644)).To(Succeed())
		return p
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "bootmenu")
		Expect(err).ToNot(HaveOccurred())
		out.Reset()
	})
	AfterEach(func() {
		Expect(os.RemoveAll(tmpDir)).To(Succeed())
	})

	Context("Generate", func() {
		var envFile string

		BeforeEach(func() {
			envFile = writeFile("bootmenu.env", "BOOTMENU_MACHINE=fvp\n"+
				"BOOTMENU_BOOT_PATH=/tftpboot\n"+
				"BOOTMENU_MENU_OUT="+filepath.Join(tmpDir, "out", "menu.lst")+"\n"+
				"BOOTMENU_TARGETS_OUT="+filepath.Join(tmpDir, "out", "targets")+"\n")
		})

		It("takes unset flags from the env file", func() {
			Expect(newApp(&out).Run([]string{"bootmenu", "--env-file", envFile})).To(Succeed())

			Expect(readFile("out/menu.lst")).To(ContainSubstring("kernel /tftpboot/arm_fvp/sbin/cpu_a9ve loglevel=3\n"))
			Expect(readFile("out/targets")).To(Equal("arm_a9ve_image\narm_fvp/sbin/cpu_a9ve\narm_fvp/sbin/init\n"))
		})

		It("prefers flags over the env file", func() {
			Expect(newApp(&out).Run([]string{"bootmenu", "--env-file", envFile, "--machine", "pandaboard", "--boot-path", "/srv/tftp"})).To(Succeed())

			menu := readFile("out/menu.lst")
			Expect(menu).To(ContainSubstring("kernel /srv/tftp/armv7/sbin/cpu_omap44xx consolePort=2 loglevel=3\n"))
			Expect(menu).ToNot(ContainSubstring("arm_fvp"))
			Expect(readFile("out/targets")).To(Equal("armv7/sbin/cpu_omap44xx\narmv7/sbin/init\n"))
		})

		It("uses the scenario machine without --machine", func() {
			sc := writeFile("memtest.yaml", "name: memtest\nmachine: gem5_arm\nsteps:\n  - op: add_module\n    module: memeater\n")

			Expect(newApp(&out).Run([]string{"bootmenu",
				"--scenario", sc,
				"--menu-out", filepath.Join(tmpDir, "menu.lst"),
				"--targets-out", filepath.Join(tmpDir, "targets"),
			})).To(Succeed())

			Expect(readFile("menu.lst")).To(ContainSubstring("modulenounzip arm_gem5/sbin/memeater \n"))
			Expect(readFile("targets")).To(Equal("arm_gem5/sbin/cpu_arm_gem5\narm_gem5/sbin/init\narm_gem5/sbin/memeater\narm_gem5_image\n"))
		})

		It("fails without a machine", func() {
			err := newApp(&out).Run([]string{"bootmenu", "--menu-out", filepath.Join(tmpDir, "menu.lst")})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no machine"))
		})

		It("fails on a missing env file", func() {
			err := newApp(&out).Run([]string{"bootmenu", "--env-file", filepath.Join(tmpDir, "missing.env")})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("env file"))
		})

		It("writes nothing on dry-run", func() {
			Expect(newApp(&out).Run([]string{"bootmenu", "--env-file", envFile, "--dry-run"})).To(Succeed())
			_, err := os.Stat(filepath.Join(tmpDir, "out"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Context("decode", func() {
		It("prints the targets of a menu", func() {
			menu := writeFile("menu.lst", "timeout 0\ntitle Test image\nroot (nd)\n"+
				"kernel /tftpboot/x86_64/sbin/cpu_x86_64 serial=0x3f8\n"+
				"modulenounzip /tftpboot/x86_64/sbin/cpu_x86_64 serial=0x3f8\n"+
				"modulenounzip /tftpboot/x86_64/sbin/monitor|1 \n"+
				"modulenounzip /tftpboot/x86_64/sbin/monitor|2 \n")

			Expect(newApp(&out).Run([]string{"bootmenu", "decode", "--boot-path", "/tftpboot", menu})).To(Succeed())
			Expect(out.String()).To(Equal("x86_64/sbin/cpu_x86_64\nx86_64/sbin/monitor\n"))
		})
		It("fails on a missing menu", func() {
			err := newApp(&out).Run([]string{"bootmenu", "decode", filepath.Join(tmpDir, "missing.lst")})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("reading menu"))
		})
	})

	It("lists the machines", func() {
		Expect(newApp(&out).Run([]string{"bootmenu", "machines"})).To(Succeed())
		Expect(out.String()).To(ContainSubstring("pandaboard\tarmv7\tomap44xx\tconsolePort=2 loglevel=3\n"))
	})

	It("prints the version", func() {
		Expect(newApp(&out).Run([]string{"bootmenu", "version"})).To(Succeed())
		Expect(out.String()).To(Equal(version.Get().Short() + "\n"))
		Expect(out.String()).To(ContainSubstring(version.MenuFormat))
	})
})
