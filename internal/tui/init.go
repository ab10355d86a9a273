package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/studiowebux/proyectos/internal/cancel"
	"github.com/studiowebux/proyectos/internal/charts"
	"github.com/studiowebux/proyectos/internal/debounce"
	"github.com/studiowebux/proyectos/internal/executor"
	"github.com/studiowebux/proyectos/internal/focus"
	"github.com/studiowebux/proyectos/internal/keybinds"
	"github.com/studiowebux/proyectos/internal/session"
	"github.com/studiowebux/proyectos/internal/store"
)

// Options holds the dependencies and settings of the TUI
type Options struct {
	Client         *executor.Client
	Keybinds       *keybinds.Registry // defaults when nil
	Logger         *zap.Logger
	SearchDebounce time.Duration
	MinChars       int
	MessageTimeout time.Duration
	StatsTTL       time.Duration
	DownloadDir    string
}

// New creates the TUI model
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if opts.Keybinds == nil {
		opts.Keybinds = keybinds.NewDefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 3
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}

	search := textinput.New()
	search.Placeholder = "Buscar por título, estudiante, asesor..."
	search.Prompt = "🔍 "
	search.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleTitle

	m := &Model{
		ctx:            ctx,
		client:         opts.Client,
		registry:       opts.Client.Registry(),
		store:          store.New(opts.StatsTTL),
		session:        session.NewManager(),
		keybinds:       opts.Keybinds,
		debouncer:      debounce.New(opts.SearchDebounce),
		logger:         opts.Logger,
		now:            time.Now,
		copyText:       clipboard.WriteAll,
		minChars:       opts.MinChars,
		messageTimeout: opts.MessageTimeout,
		downloadDir:    opts.DownloadDir,
		search:         search,
		inputs:         newFormInputs(),
		chartKind:      charts.KindPrograms,
		detail:         viewport.New(0, 0),
		help:           viewport.New(0, 0),
		loading:        make(map[cancel.Purpose]bool),
		spinner:        s,
	}
	m.modal = focus.NewController(focusHost{m: m})
	m.setFocus(idSearch)

	return m, nil
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	zone.NewGlobal()

	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
