// Package tui is the interactive terminal front end of the metronome.
package tui

import (
	"encoding/json"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronizer/engine"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/project"
	"github.com/robmorgan/metronizer/render"
	"github.com/sirupsen/logrus"
)

const (
	// autosaveDelay coalesces repeated tempo edits into one project write.
	autosaveDelay = 750 * time.Millisecond

	// flashFrames is how many ticks the beat indicator stays lit.
	flashFrames = 4

	defaultColumns = 80
)

// Options configure the terminal front end.
type Options struct {
	Style render.Style
	FPS   int

	// ProjectPath enables autosave of tempo edits when set.
	ProjectPath string
	Settings    json.RawMessage
}

type model struct {
	player   *engine.Player
	opts     Options
	progress progress.Model
	autosave func(f func())

	// save writes the project; replaced in tests
	save func(path string, p project.Project) error

	last     engine.Tick
	frame    render.Frame
	flash    int
	accent   bool
	columns  int
	quitting bool
	status   string
}

func newModel(player *engine.Player, opts Options) model {
	if opts.FPS < 1 {
		opts.FPS = 30
	}
	m := model{
		player: player,
		opts:   opts,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(defaultColumns-4),
			progress.WithoutPercentage(),
		),
		autosave: debounce.New(autosaveDelay),
		save:     project.Save,
		columns:  defaultColumns,
	}
	m.frame = player.Frame(opts.Style)
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

type tickMsg time.Time

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// scheduleSave snapshots the timeline now and writes it once edits settle.
func (m model) scheduleSave() {
	if m.opts.ProjectPath == "" {
		return
	}
	p := project.FromTimeline(m.player.Timeline(), m.opts.Settings)
	path := m.opts.ProjectPath
	save := m.save
	m.autosave(func() {
		if err := save(path, p); err != nil {
			logger.GetProjectLogger().WithFields(logrus.Fields{"path": path}).Errorf("autosave failed: %v", err)
		}
	})
}
