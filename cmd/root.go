package cmd

import (
	"errors"
	"fmt"

	"github.com/robmorgan/metronizer/config"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/project"
	"github.com/robmorgan/metronizer/render"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "metronizer",
	Short: "Visual metronome for sequences of tempo and time signature sections",
	Long: `metronizer plays back a project of sections (bars at a tempo and time signature, optionally a
precount) as a scrolling timeline with a bouncing ball, and exports the same frames for video encoding.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.GetProjectLogger().SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "optional .env file with METRONIZER_* settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides "+logger.LogLevelEnv)
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// session is a loaded project with the configuration its settings line produces.
type session struct {
	path     string
	project  project.Project
	config   config.MetronizerConfig
	timeline *rhythm.Timeline
	style    render.Style
}

// loadSession loads the project at path, or the built-in example for an empty path, and overlays its
// settings on the environment configuration. Malformed lines are skipped with a warning.
func loadSession(path string) (*session, error) {
	cfg, err := config.NewMetronizerConfig(envFile)
	if err != nil {
		return nil, err
	}

	var p project.Project
	if path == "" {
		p, err = project.Parse(project.Example)
	} else {
		p, err = project.Load(path)
	}
	var parseErrs project.ParseErrors
	if err != nil && !errors.As(err, &parseErrs) {
		return nil, err
	}

	if len(p.Settings) > 0 {
		settings, err := config.ParseSettings(p.Settings)
		if err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
		if cfg, err = settings.Apply(cfg); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
	}

	tl, err := p.Timeline()
	if err != nil {
		return nil, err
	}
	style, err := render.StyleFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"path":     path,
		"sections": tl.Len(),
		"skipped":  len(parseErrs),
	}).Debug("Loaded session")
	return &session{path: path, project: p, config: cfg, timeline: tl, style: style}, nil
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
