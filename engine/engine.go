package engine

import (
	"context"
	"sync"
	"time"

	"github.com/robmorgan/metronizer/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Loop ticks a Player at a fixed rate and hands every Tick to onUpdate.
type Loop struct {
	clock    clock.WithTicker
	player   *Player
	onUpdate func(Tick)
	tickRate int
}

// NewLoop creates a loop ticking player tickRate times per second.
func NewLoop(clk clock.WithTicker, tickRate int, player *Player, onUpdate func(Tick)) *Loop {
	if tickRate < 1 {
		tickRate = 1
	}
	return &Loop{
		clock:    clk,
		player:   player,
		onUpdate: onUpdate,
		tickRate: tickRate,
	}
}

// GetTickRate returns the number of ticks per second.
func (l *Loop) GetTickRate() int {
	return l.tickRate
}

// TickInterval returns the time between two ticks.
func (l *Loop) TickInterval() time.Duration {
	return time.Second / time.Duration(l.tickRate)
}

// Run ticks the player until ctx is cancelled. The loop goroutine is the only caller of the player while
// it runs.
func (l *Loop) Run(ctx context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"tick_rate": l.tickRate}).Info("Loop started")

	ticker := l.clock.NewTicker(l.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Loop shutdown")
			return ctx.Err()
		case <-ticker.C():
			t := l.player.Tick()
			if l.onUpdate != nil {
				l.onUpdate(t)
			}
		}
	}
}
