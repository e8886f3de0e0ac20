package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/nickysemenza/gola"
	"github.com/robmorgan/metronizer/effect"
	"github.com/robmorgan/metronizer/engine"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/transport"
	"github.com/robmorgan/metronizer/trigger"
	"github.com/robmorgan/metronizer/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

const (
	olaTick       = 40 * time.Millisecond
	flashDuration = 150 * time.Millisecond
)

var playOpts struct {
	headless bool
	osc      string
	dmx      bool
	noSound  bool
	clickHi  string
	clickLo  string
	logFile  string
	logBeats bool
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolVar(&playOpts.headless, "headless", false, "play without the terminal UI until the piece ends")
	playCmd.Flags().StringVar(&playOpts.osc, "osc", "", "send beats and play state to an OSC receiver at host:port")
	playCmd.Flags().BoolVar(&playOpts.dmx, "dmx", false, "flash the patched lights through OLA")
	playCmd.Flags().BoolVar(&playOpts.noSound, "no-sound", false, "disable the audio click")
	playCmd.Flags().StringVar(&playOpts.clickHi, "click-hi", "", "WAV file played on bar starts")
	playCmd.Flags().StringVar(&playOpts.clickLo, "click-lo", "", "WAV file played on the other beats")
	playCmd.Flags().StringVar(&playOpts.logFile, "log-file", tui.DefaultLogPath, "log file used while the terminal UI runs")
	playCmd.Flags().BoolVar(&playOpts.logBeats, "log-beats", false, "log every beat")
}

var playCmd = &cobra.Command{
	Use:   "play [project]",
	Short: "Play a project, or the built-in example",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(pathArg(args))
		if err != nil {
			return err
		}
		return play(cmd.Context(), s)
	},
}

func play(ctx context.Context, s *session) error {
	log := logger.GetProjectLogger()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg := sync.WaitGroup{}

	clk := clock.RealClock{}
	player := engine.NewPlayer(s.timeline, clk, s.config.TailGraceMs)

	if playOpts.logBeats {
		sink := trigger.NewLogSink(log, logrus.InfoLevel)
		player.AddBeatSink(sink)
		player.OnStateChange(sink.OnState)
	}

	if playOpts.osc != "" {
		host, portStr, err := net.SplitHostPort(playOpts.osc)
		if err != nil {
			return fmt.Errorf("--osc: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("--osc: invalid port %q", portStr)
		}
		sink := trigger.NewOSCSink(host, port)
		player.AddBeatSink(sink)
		player.OnStateChange(sink.OnState)
	}

	if s.config.PlaySound && !playOpts.noSound {
		click, err := trigger.NewSpeakerClickSink(playOpts.clickHi, playOpts.clickLo)
		if err != nil {
			log.Errorf("could not initialize audio click: %v", err)
		} else {
			player.AddBeatSink(click)
		}
	}

	// configure OLA for DMX output
	if playOpts.dmx {
		easing, err := effect.ParseEasing(s.config.Easing)
		if err != nil {
			easing = ease.Linear
		}
		flasher, err := trigger.NewDMXFlasher(clk, s.config, effect.NewEnvelope(easing, flashDuration))
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"address": s.config.OLAAddress}).Info("Connecting to OLA...")
		client, err := gola.New(s.config.OLAAddress)
		if err != nil {
			log.Errorf("could not connect to OLA: %v", err)
		} else {
			player.AddBeatSink(flasher)
			wg.Add(1)
			go trigger.SendDMXWorker(ctx, client, clk, olaTick, flasher, &wg)
		}
	}

	defer wg.Wait()
	defer cancel()

	if !playOpts.headless {
		return tui.Run(player, tui.Options{
			Style:       s.style,
			FPS:         s.config.FPS,
			ProjectPath: s.path,
			Settings:    s.project.Settings,
		}, playOpts.logFile)
	}
	return playHeadless(ctx, cancel, clk, player, s)
}

// playHeadless runs the fixed-rate loop until the piece ends or the user interrupts.
func playHeadless(ctx context.Context, cancel context.CancelFunc, clk clock.WithTicker, player *engine.Player, s *session) error {
	log := logger.GetProjectLogger()

	lastBar := -1
	loop := engine.NewLoop(clk, s.config.FPS, player, func(t engine.Tick) {
		if t.Position.BarNumber != lastBar && t.Position.HasBeat() {
			lastBar = t.Position.BarNumber
			log.WithFields(logrus.Fields{"marker": t.Position.Marker()}).Info(tui.Summary(player.FrameAt(s.style, t.ElapsedMs)))
		}
		if t.AutoReset {
			cancel()
		}
	})
	player.OnStateChange(func(st transport.State) {
		log.WithFields(logrus.Fields{"state": st.String()}).Debug("Transport state changed")
	})

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)
	go func() {
		select {
		case <-quit:
			log.Println("shutting down metronizer")
			cancel()
		case <-ctx.Done():
		}
	}()

	player.Play()
	loopWg := sync.WaitGroup{}
	loopWg.Add(1)
	err := loop.Run(ctx, &loopWg)
	loopWg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
