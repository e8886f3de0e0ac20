package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/engine"
	"github.com/robmorgan/metronizer/logger"
)

// DefaultLogPath receives the log while the terminal is taken over.
const DefaultLogPath = "metronizer.log"

// Run takes over the terminal and drives player until the user quits. The project logger is redirected to
// logPath for the duration so it does not corrupt the screen.
func Run(player *engine.Player, opts Options, logPath string) error {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return goerrors.WithStackTrace(err)
	}
	defer f.Close()

	log := logger.GetProjectLogger()
	out := log.Out
	log.SetOutput(f)
	defer log.SetOutput(out)

	if err := tea.NewProgram(newModel(player, opts), tea.WithAltScreen()).Start(); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}
