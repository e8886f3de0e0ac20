package rhythm

// PixelXAt maps a timeline time to a horizontal pixel coordinate. The timeline scrolls left as elapsed
// playback time grows, and the current instant always sits at playheadPx.
func PixelXAt(timeMs, pixelsPerSecond, elapsedMs, playheadPx float64) float64 {
	return playheadPx + (timeMs-elapsedMs)/1000.0*pixelsPerSecond
}

// TimeAtPixelX is the inverse of PixelXAt.
func TimeAtPixelX(x, pixelsPerSecond, elapsedMs, playheadPx float64) float64 {
	return elapsedMs + (x-playheadPx)/pixelsPerSecond*1000.0
}

// PixelX maps a counted (bar, subBeat) position to its pixel coordinate. It uses the same bar lookup as
// TimeOfBar, so a position resolves to the exact instant Locate reports for it. It returns false for a bar
// outside the piece.
func PixelX(sections []Section, barNumber, subBeat int, pixelsPerSecond, elapsedMs, playheadPx float64) (float64, bool) {
	t, ok := TimeOfPosition(sections, barNumber, subBeat)
	if !ok {
		return 0, false
	}
	return PixelXAt(t, pixelsPerSecond, elapsedMs, playheadPx), true
}

// CommentX maps a comment to its pixel coordinate.
func CommentX(sections []Section, c Comment, pixelsPerSecond, elapsedMs, playheadPx float64) (float64, bool) {
	return PixelX(sections, c.Bar, c.SubBeat, pixelsPerSecond, elapsedMs, playheadPx)
}
