package profile

const (
	ChannelTypeIntensity = "channel:type:intensity"
	ChannelTypeStrobe    = "channel:type:strobe"

	ChannelTypeRed   = "channel:type:red"
	ChannelTypeGreen = "channel:type:green"
	ChannelTypeBlue  = "channel:type:blue"
	ChannelTypeWhite = "channel:type:white"
)

// Profile holds info for a flash fixture profile: the offset of every channel from the fixture's start
// address, counted from 1.
type Profile struct {
	Name string

	// The fixture channels
	Channels map[string]int
}

// Channel returns the absolute DMX channel of a channel type for a fixture patched at address.
func (p Profile) Channel(channelType string, address int) (int, bool) {
	offset, ok := p.Channels[channelType]
	if !ok {
		return 0, false
	}
	return address + offset - 1, true
}

// HasColor reports whether the profile can mix RGB.
func (p Profile) HasColor() bool {
	_, r := p.Channels[ChannelTypeRed]
	_, g := p.Channels[ChannelTypeGreen]
	_, b := p.Channels[ChannelTypeBlue]
	return r && g && b
}
