package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"runtime"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/render"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/robmorgan/metronizer/transport"
	"github.com/sirupsen/logrus"
)

// progressLogEvery is the number of frames between two progress log lines.
const progressLogEvery = 600

// ErrInvalidFPS is returned for a frame rate below one frame per second.
var ErrInvalidFPS = errors.New("fps must be at least 1")

// ProgressFunc is called after every exported frame.
type ProgressFunc func(done, total int)

// BeatRecord is a beat crossed between the previous frame and the current one.
type BeatRecord struct {
	TimeMs    float64 `json:"timeMs"`
	BarNumber int     `json:"bar"`
	SubBeat   int     `json:"subBeat"`
	Kind      string  `json:"kind"`
	Counted   bool    `json:"counted"`
}

// Record is one exported frame.
type Record struct {
	Index int          `json:"index"`
	Beats []BeatRecord `json:"beats,omitempty"`
	Frame render.Frame `json:"frame"`
}

// FrameSink receives exported frames in order.
type FrameSink interface {
	WriteRecord(rec Record) error
}

// Result summarizes an export run.
type Result struct {
	Frames    int
	Total     int
	Cancelled bool
}

// Sampler evaluates a scene at fixed synthetic time steps. Frame k is rendered at k*1000/fps ms, so the
// output never depends on the wall clock.
type Sampler struct {
	scene       render.Scene
	fps         int
	tailGraceMs float64
	progress    ProgressFunc
}

// NewSampler creates a sampler over scene. The scene is rendered as playing so the ending animation is
// captured through the tail grace.
func NewSampler(scene render.Scene, fps int, tailGraceMs float64) (*Sampler, error) {
	if fps < 1 {
		return nil, ErrInvalidFPS
	}
	scene.Playing = true
	return &Sampler{
		scene:       scene,
		fps:         fps,
		tailGraceMs: math.Max(0, tailGraceMs),
	}, nil
}

// OnProgress registers the per-frame progress callback.
func (s *Sampler) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// FPS returns the frame rate.
func (s *Sampler) FPS() int {
	return s.fps
}

// FrameCount is the number of frames covering the piece and its tail grace.
func (s *Sampler) FrameCount() int {
	total := rhythm.TotalDuration(s.scene.Sections) + s.tailGraceMs
	return int(math.Ceil(total / 1000 * float64(s.fps)))
}

// FrameTime returns the synthetic elapsed time of frame k.
func (s *Sampler) FrameTime(k int) float64 {
	return float64(k) * 1000 / float64(s.fps)
}

// Frame renders frame k.
func (s *Sampler) Frame(k int) render.Frame {
	return render.Compose(s.scene, s.FrameTime(k))
}

// Run renders every frame into sink. Cancellation is checked before each frame and is not an error: the
// frames written so far are kept and the result is marked as cancelled.
func (s *Sampler) Run(ctx context.Context, sink FrameSink) (Result, error) {
	log := logger.GetProjectLogger()
	res := Result{Total: s.FrameCount()}
	tracker := transport.NewBeatTracker()

	log.WithFields(logrus.Fields{
		"frames": res.Total,
		"fps":    s.fps,
	}).Info("Export started")

	for k := 0; k < res.Total; k++ {
		select {
		case <-ctx.Done():
			res.Cancelled = true
			log.WithFields(logrus.Fields{"frames": res.Frames}).Warn("Export cancelled")
			return res, nil
		default:
		}

		elapsed := s.FrameTime(k)
		rec := Record{
			Index: k,
			Beats: beatRecords(tracker.Observe(s.scene.Sections, elapsed)),
			Frame: render.Compose(s.scene, elapsed),
		}
		if err := sink.WriteRecord(rec); err != nil {
			return res, err
		}
		res.Frames++

		if s.progress != nil {
			s.progress(res.Frames, res.Total)
		}
		if res.Frames%progressLogEvery == 0 {
			log.WithFields(logrus.Fields{
				"done":  res.Frames,
				"total": res.Total,
			}).Debug("Export progress")
		}

		// let other goroutines (the TUI, signal handling) run between frames
		runtime.Gosched()
	}

	log.WithFields(logrus.Fields{"frames": res.Frames}).Info("Export finished")
	return res, nil
}

func beatRecords(beats []rhythm.Beat) []BeatRecord {
	if len(beats) == 0 {
		return nil
	}
	out := make([]BeatRecord, 0, len(beats))
	for _, b := range beats {
		out = append(out, BeatRecord{
			TimeMs:    b.TimeMs,
			BarNumber: b.BarNumber,
			SubBeat:   b.SubBeat,
			Kind:      b.Kind().String(),
			Counted:   b.Counted,
		})
	}
	return out
}

// JSONLinesSink writes one JSON document per frame, the input format of the external encoder.
type JSONLinesSink struct {
	enc *json.Encoder
}

// NewJSONLinesSink creates a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{enc: json.NewEncoder(w)}
}

func (j *JSONLinesSink) WriteRecord(rec Record) error {
	if err := j.enc.Encode(rec); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}
