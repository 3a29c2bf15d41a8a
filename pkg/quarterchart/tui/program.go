package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/controller"
)

// Sink forwards controller views to a running program. Views shown
// before Attach are dropped.
type Sink struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach starts forwarding to p.
func (s *Sink) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

func (s *Sink) Show(v controller.View) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(viewMsg(v))
	}
}

// Options configure Run.
type Options struct {
	// Path is the workbook loaded at startup.
	Path string
	// SnapshotPath is where exported preferences are written.
	SnapshotPath string
	// Watch reloads the workbook when it changes on disk.
	Watch  bool
	Logger *zap.Logger
	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// Run drives ctrl from an interactive terminal program until the user
// quits or ctx is done. ctrl must have been built with sink.
func Run(ctx context.Context, ctrl *controller.Controller, sink *Sink, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctrl, opts.Path, opts.SnapshotPath)
	programOpts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	}, opts.ProgramOptions...)
	program := tea.NewProgram(model, programOpts...)
	sink.Attach(program)

	if opts.Watch && opts.Path != "" {
		w, err := Watch(opts.Path, DefaultDebounce, func(path string) {
			ctrl.Post(controller.LoadRequested{Path: path})
		}, log)
		if err != nil {
			log.Warn("Workbook watch disabled", zap.String("path", opts.Path), zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	ctrl.Post(controller.LoadRequested{Path: opts.Path})
	return g.Wait()
}
