package trigger

import (
	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/metronizer/logger"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/robmorgan/metronizer/transport"
	"github.com/sirupsen/logrus"
)

// OSC addresses of the outgoing messages.
const (
	OSCBeatAddress  = "/metronizer/beat"
	OSCStateAddress = "/metronizer/state"
)

// OSCSender is the part of an OSC client used by OSCSink.
type OSCSender interface {
	Send(packet osc.Packet) error
}

// OSCSink forwards beats and play state to an OSC receiver, e.g. a lighting desk or a DAW.
type OSCSink struct {
	client OSCSender
}

// NewOSCSink creates a sink sending UDP messages to host:port.
func NewOSCSink(host string, port int) *OSCSink {
	return NewOSCSinkWithSender(osc.NewClient(host, port))
}

// NewOSCSinkWithSender creates a sink over an existing sender.
func NewOSCSinkWithSender(client OSCSender) *OSCSink {
	return &OSCSink{client: client}
}

// OnBeat sends /metronizer/beat with the bar number, sub-beat, numerator and kind.
func (o *OSCSink) OnBeat(beat rhythm.Beat) {
	msg := osc.NewMessage(OSCBeatAddress)
	msg.Append(int32(beat.BarNumber))
	msg.Append(int32(beat.SubBeat))
	msg.Append(int32(beat.Numerator))
	msg.Append(beat.Kind().String())
	o.send(msg)
}

// OnState sends /metronizer/state with the playing flag and the state name.
func (o *OSCSink) OnState(state transport.State) {
	msg := osc.NewMessage(OSCStateAddress)
	msg.Append(state.IsPlaying())
	msg.Append(state.String())
	o.send(msg)
}

func (o *OSCSink) send(msg *osc.Message) {
	if err := o.client.Send(msg); err != nil {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"address": msg.Address,
		}).Warnf("could not send OSC message: %v", err)
	}
}
