package config

import "github.com/robmorgan/metronizer/profile"

func initializeLightProfiles() map[string]profile.Profile {
	out := map[string]profile.Profile{
		"shehds-par": {
			Name: "Shehds LED Flat PAR 12x3W RGBW",
			// 8 channel mode
			Channels: map[string]int{
				profile.ChannelTypeIntensity: 1,
				profile.ChannelTypeRed:       2,
				profile.ChannelTypeGreen:     3,
				profile.ChannelTypeBlue:      4,
				profile.ChannelTypeWhite:     5,
				profile.ChannelTypeStrobe:    6,
			},
		},
		"generic-dimmer": {
			Name: "Generic Dimmer",
			Channels: map[string]int{
				profile.ChannelTypeIntensity: 1,
			},
		},
	}

	return out
}
