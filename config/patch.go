package config

// Flash triggers select which beats drive a patched light.
const (
	TriggerBarStart = "bar-start"
	TriggerBeat     = "beat"
	TriggerAll      = "all"
)

// PatchedLight stores config info for a dmx fixture that flashes with the metronome
type PatchedLight struct {
	Name     string
	Address  int
	Universe int
	Profile  string

	// Trigger is one of TriggerBarStart, TriggerBeat or TriggerAll.
	Trigger string

	// Color is the hex color flashed on RGB fixtures. Empty uses the accent color for bar starts and the
	// foreground color otherwise.
	Color string
}

// PatchLights returns the default flash patch: a downbeat par and a beat dimmer on universe 1.
func PatchLights() []PatchedLight {
	s := make([]PatchedLight, 0)

	s = append(s, patchDownbeatPars()...)
	s = append(s, patchBeatDimmers()...)

	return s
}

func patchDownbeatPars() []PatchedLight {
	return []PatchedLight{
		// front par flashing on every bar start
		{
			Name:     "downbeat_par",
			Address:  1,
			Universe: 1,
			Profile:  "shehds-par",
			Trigger:  TriggerBarStart,
		},
	}
}

func patchBeatDimmers() []PatchedLight {
	return []PatchedLight{
		// single channel dimmer pulsing on the other beats
		{
			Name:     "beat_dimmer",
			Address:  9,
			Universe: 1,
			Profile:  "generic-dimmer",
			Trigger:  TriggerBeat,
		},
	}
}

// Fires reports whether the light flashes for a beat of the given kind.
func (p PatchedLight) Fires(barStart bool) bool {
	switch p.Trigger {
	case TriggerBarStart:
		return barStart
	case TriggerBeat:
		return !barStart
	default:
		return true
	}
}
