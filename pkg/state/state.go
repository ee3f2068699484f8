package state

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aos-harness/bootmenu/pkg/bootspec"
	"github.com/aos-harness/bootmenu/pkg/machine"
	"github.com/aos-harness/bootmenu/pkg/scenario"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"

	internalUtils "github.com/aos-harness/bootmenu/internal/utils"
)

type State struct {
	FS       vfs.FS    // where catalogs are read and outputs written, vfs.OSFS outside tests
	Out      io.Writer // receives outputs without a file, defaults to stdout
	Machine  machine.Profile
	Scenario *scenario.Scenario // optional changes on top of the default boot modules

	BootPath    string // prefix of every path in the menu e.g. /tftpboot/armv7
	Root        string // bootloader root device, defaults to (nd)
	MenuFile    string // e.g. /tftpboot/menu.lst, empty writes to Out
	TargetsFile string // one build target per line, empty writes to Out

	RunID string

	spec    *bootspec.BootSpec
	menu    string
	targets []string
}

// EnsureRunID assigns a random run id unless one was given.
func (s *State) EnsureRunID() {
	if s.RunID != "" {
		return
	}
	id, err := uuid.NewV4()
	if err != nil {
		internalUtils.Log.Warn().Err(err).Msg("Generating run id")
		return
	}
	s.RunID = id.String()
}

func (s *State) logger() *zerolog.Logger {
	l := internalUtils.Log.With().Str("run", s.RunID).Str("machine", s.Machine.Name).Logger()
	return &l
}

// Spec returns the boot configuration once the seed step ran.
func (s *State) Spec() *bootspec.BootSpec {
	return s.spec
}

// MenuData returns the rendered menu once the render step ran.
func (s *State) MenuData() string {
	return s.menu
}

// Targets returns the build targets once the collect step ran.
func (s *State) Targets() []string {
	return append([]string{}, s.targets...)
}

func (s *State) writeOutput(path, content string) error {
	if path == "" {
		out := s.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := io.WriteString(out, content)
		return err
	}

	if err := vfs.MkdirAll(s.FS, filepath.Dir(path), 0o755); err != nil {
		return err
	}
	s.logger().Debug().Str("path", path).Int("bytes", len(content)).Msg("Writing output")
	return s.FS.WriteFile(path, []byte(content), 0o644)
}

// Run executes the graph and returns the errors of every failed step.
func (s *State) Run(ctx context.Context, g *herd.Graph) error {
	runErr := g.Run(ctx)
	if err := s.Errors(g); err != nil {
		return err
	}
	return runErr
}

// Errors collects the errors of the graph steps.
func (s *State) Errors(g *herd.Graph) error {
	var allErrors error
	for _, layer := range g.Analyze() {
		for _, op := range layer {
			if op.Error != nil {
				allErrors = multierror.Append(allErrors, fmt.Errorf("%s: %w", op.Name, op.Error))
			}
		}
	}
	return allErrors
}

// WriteDAG renders the graph one numbered layer at a time, with the outcome of each step.
func (s *State) WriteDAG(g *herd.Graph) (out string) {
	if s.RunID != "" {
		out += fmt.Sprintf("run %s (%s)\n", s.RunID, s.Machine.Name)
	}
	for i, layer := range g.Analyze() {
		out += fmt.Sprintf("%d.\n", i+1)
		for _, op := range layer {
			if op.Error != nil {
				out += fmt.Sprintf(" <%s> (error: %s) (background: %t) (weak: %t) (run: %t)\n", op.Name, op.Error.Error(), op.Background, op.WeakDeps, op.Executed)
			} else {
				out += fmt.Sprintf(" <%s> (background: %t) (weak: %t) (run: %t)\n", op.Name, op.Background, op.WeakDeps, op.Executed)
			}
		}
	}
	return
}

// LogIfError logs e, if any, with msgContext as message.
func (s *State) LogIfError(e error, msgContext string) {
	if e != nil {
		s.logger().Err(e).Msg(msgContext)
	}
}

// LogIfErrorAndReturn is LogIfError returning e, so registration can stop on steps others depend on.
func (s *State) LogIfErrorAndReturn(e error, msgContext string) error {
	s.LogIfError(e, msgContext)
	return e
}
