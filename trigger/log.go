// Package trigger holds the outputs driven by beat crossings and transport state changes.
package trigger

import (
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/robmorgan/metronizer/transport"
	"github.com/sirupsen/logrus"
)

// LogSink logs every beat and state change.
type LogSink struct {
	logger *logrus.Logger
	level  logrus.Level
}

// NewLogSink creates a sink writing to logger at level.
func NewLogSink(logger *logrus.Logger, level logrus.Level) *LogSink {
	return &LogSink{logger: logger, level: level}
}

func (l *LogSink) OnBeat(beat rhythm.Beat) {
	l.logger.WithFields(logrus.Fields{
		"time_ms":  beat.TimeMs,
		"section":  beat.SectionIndex,
		"bar":      beat.BarNumber,
		"sub_beat": beat.SubBeat,
		"kind":     beat.Kind().String(),
	}).Log(l.level, "Beat")
}

func (l *LogSink) OnState(state transport.State) {
	l.logger.WithFields(logrus.Fields{"state": state.String()}).Log(l.level, "Transport state")
}
