package menu_test

import (
	"errors"
	"os"

	"github.com/aos-harness/bootmenu/pkg/menu"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4/vfst"
)

const menuLst = "timeout 0\n" +
	"title Test image\n" +
	"root (nd)\n" +
	"hypervisor /boot/x86_64/sbin/hv\n" +
	"kernel /boot/x86_64/sbin/cpu_x86_64 serial=0x3f8 loglevel=3\n" +
	"modulenounzip /boot/x86_64/sbin/cpu_x86_64 serial=0x3f8 loglevel=3\n" +
	"modulenounzip /boot/x86_64/sbin/init \n" +
	"modulenounzip /boot/x86_64/sbin/monitor|1 core=1\n" +
	"modulenounzip /boot/x86_64/sbin/monitor|2 core=2\n"

var _ = Describe("menu", func() {
	Context("Encode", func() {
		It("writes the lines in order", func() {
			m := &menu.Menu{
				Title:   "Test image",
				Root:    "(nd)",
				Kernel:  menu.Entry{Path: "/boot/cpu", Args: []string{"a"}},
				Modules: []menu.Entry{{Path: "/boot/init"}},
			}
			Expect(m.String()).To(Equal("timeout 0\ntitle Test image\nroot (nd)\nkernel /boot/cpu a\nmodulenounzip /boot/init \n"))
		})
	})

	Context("Decode", func() {
		It("parses a rendered menu", func() {
			m, err := menu.Decode([]byte(menuLst))
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Timeout).To(Equal(0))
			Expect(m.Title).To(Equal("Test image"))
			Expect(m.Root).To(Equal("(nd)"))
			Expect(m.Hypervisor).To(Equal("/boot/x86_64/sbin/hv"))
			Expect(m.Kernel.Path).To(Equal("/boot/x86_64/sbin/cpu_x86_64"))
			Expect(m.Kernel.Args).To(Equal([]string{"serial=0x3f8", "loglevel=3"}))
			Expect(m.Modules).To(HaveLen(4))
			Expect(m.Modules[1].Path).To(Equal("/boot/x86_64/sbin/init"))
			Expect(m.Modules[1].Args).To(BeEmpty())
		})
		It("encodes back to the same text", func() {
			m, err := menu.Decode([]byte(menuLst))
			Expect(err).ToNot(HaveOccurred())
			Expect(m.String()).To(Equal(menuLst))
		})
		It("skips comments and unknown directives", func() {
			m, err := menu.Decode([]byte("# generated\nmmap map 0x0 0x1000 1\nkernel /cpu\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Kernel.Path).To(Equal("/cpu"))
		})
		It("requires a kernel", func() {
			_, err := menu.Decode([]byte("timeout 0\nmodulenounzip /init\n"))
			Expect(err).To(MatchError(menu.ErrNoKernel))
		})
		It("rejects two kernels", func() {
			_, err := menu.Decode([]byte("kernel /a\nkernel /b\n"))
			Expect(err).To(HaveOccurred())
		})
		It("rejects bad timeouts", func() {
			_, err := menu.Decode([]byte("timeout never\nkernel /a\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("line 1"))
		})
		It("rejects modules without a path", func() {
			_, err := menu.Decode([]byte("kernel /a\nmodulenounzip\n"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Targets", func() {
		It("strips the prefix and instance tags", func() {
			m, err := menu.Decode([]byte(menuLst))
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Targets("/boot")).To(Equal([]string{
				"x86_64/sbin/cpu_x86_64",
				"x86_64/sbin/hv",
				"x86_64/sbin/init",
				"x86_64/sbin/monitor",
			}))
			Expect(m.Targets("/boot/")).To(Equal(m.Targets("/boot")))
		})
	})

	Context("Read", func() {
		var fs *vfst.TestFS
		var cleanup func()

		BeforeEach(func() {
			var err error
			fs, cleanup, err = vfst.NewTestFS(map[string]interface{}{
				"/tftpboot/menu.lst": menuLst,
			})
			Expect(err).ToNot(HaveOccurred())
		})
		AfterEach(func() {
			cleanup()
		})

		It("reads a menu file", func() {
			m, err := menu.Read(fs, "/tftpboot/menu.lst")
			Expect(err).ToNot(HaveOccurred())
			Expect(m).ToNot(BeNil())
			Expect(m.Modules).To(HaveLen(4))
		})
		It("fails with ErrNotExist for a missing file", func() {
			m, err := menu.Read(fs, "/tftpboot/missing.lst")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue(), err.Error())
			Expect(m).To(BeNil())
		})
		It("fails on unreadable content", func() {
			Expect(fs.WriteFile("/tftpboot/bad.lst", []byte("root (nd)\n"), os.ModePerm)).To(Succeed())
			_, err := menu.Read(fs, "/tftpboot/bad.lst")
			Expect(err).To(MatchError(menu.ErrNoKernel))
			Expect(err.Error()).To(ContainSubstring("/tftpboot/bad.lst"))
		})
	})
})
