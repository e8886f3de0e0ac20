package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/export"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportOpts struct {
	fps       int
	out       string
	midi      string
	tailGrace float64
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(&exportOpts.fps, "fps", 0, "frames per second, defaults to the configured FPS")
	exportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "-", "JSON lines frame output, - for stdout")
	exportCmd.Flags().StringVar(&exportOpts.midi, "midi", "", "also write a MIDI click track to this file")
	exportCmd.Flags().Float64Var(&exportOpts.tailGrace, "tail-grace", -1, "milliseconds rendered after the end, defaults to the configured tail grace")
}

var exportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Render every frame at a fixed rate as JSON lines for an external encoder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(pathArg(args))
		if err != nil {
			return err
		}

		fps := s.config.FPS
		if exportOpts.fps > 0 {
			fps = exportOpts.fps
		}
		tailGrace := s.config.TailGraceMs
		if exportOpts.tailGrace >= 0 {
			tailGrace = exportOpts.tailGrace
		}

		sampler, err := export.NewSampler(render.Scene{
			Sections: s.timeline.Sections(),
			Comments: s.timeline.Comments(),
			Style:    s.style,
		}, fps, tailGrace)
		if err != nil {
			return err
		}

		if exportOpts.midi != "" {
			if err := export.WriteClickTrackFile(exportOpts.midi, s.timeline.Sections()); err != nil {
				return err
			}
			logger.GetProjectLogger().WithFields(logrus.Fields{"path": exportOpts.midi}).Info("Wrote click track")
		}

		return runExport(cmd, sampler, exportOpts.out)
	},
}

func runExport(cmd *cobra.Command, sampler *export.Sampler, out string) error {
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return goerrors.WithStackTrace(err)
		}
		defer f.Close()
		w = f
	}
	buf := bufio.NewWriter(w)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stderr := cmd.ErrOrStderr()
	lastPercent := -1
	sampler.OnProgress(func(done, total int) {
		percent := done * 100 / total
		if percent/10 != lastPercent/10 {
			lastPercent = percent
			fmt.Fprintf(stderr, "exported %d/%d frames (%d%%)\n", done, total, percent)
		}
	})

	res, err := sampler.Run(ctx, export.NewJSONLinesSink(buf))
	if flushErr := buf.Flush(); err == nil && flushErr != nil {
		err = goerrors.WithStackTrace(flushErr)
	}
	if err != nil {
		return err
	}
	if res.Cancelled {
		fmt.Fprintf(stderr, "export cancelled after %d of %d frames\n", res.Frames, res.Total)
	}
	return nil
}
