package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/metronizer/render"
)

const ballRows = 4

var (
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	counterStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	stateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	appStyle     = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	if m.quitting {
		return "\n"
	}
	f := m.frame
	width := m.columns - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(header(f, width))
	b.WriteString("\n\n")

	indicator := " "
	if m.flash > 0 {
		indicator = "●"
	}
	indicatorColor := f.Counter.Color
	if m.accent {
		indicatorColor = f.Ball.Color
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		counterStyle.Copy().Foreground(lipgloss.Color(f.Counter.Color)).Render(f.Counter.Content)+
			lipgloss.NewStyle().Foreground(lipgloss.Color(indicatorColor)).Render(indicator)))
	b.WriteString("\n\n")

	for _, row := range ballLines(f, width) {
		b.WriteString(row)
		b.WriteString("\n")
	}
	for _, row := range timelineLines(f, width) {
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.player.Progress()))
	b.WriteString("\n\n")

	state := m.player.Transport().State().String()
	if m.status != "" {
		state += " · " + m.status
	}
	b.WriteString(stateStyle.Render(state))
	b.WriteString(helpStyle.Render("space play/pause · r reset · ←/→ bar · 0-9 jump · [/] tempo · q quit"))
	return appStyle.Render(b.String())
}

// header draws the info row, framed when the frame carries header boxes.
func header(f render.Frame, width int) string {
	if len(f.HeaderBoxes) == 0 {
		return infoLine(f, width)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(f.HeaderBoxes[0].Color)).
		Padding(0, 1)
	return box.Render(infoLine(f, width-4))
}

// infoLine lays the left and right aligned info texts out on one row.
func infoLine(f render.Frame, width int) string {
	var left, right, center []string
	for _, t := range f.Info {
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(t.Content)
		switch t.Align {
		case render.AlignLeft:
			left = append(left, s)
		case render.AlignRight:
			right = append(right, s)
		default:
			center = append(center, s)
		}
	}
	l := strings.Join(left, "  ")
	r := strings.Join(right, "  ")
	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	line := l + strings.Repeat(" ", gap) + r
	if len(center) > 0 {
		line += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(center, " "))
	}
	return line
}

// column maps a canvas x coordinate to a terminal column, or -1 when it is off screen.
func column(x, canvasWidth float64, cols int) int {
	if canvasWidth <= 0 {
		return -1
	}
	c := int(math.Floor(x / canvasWidth * float64(cols)))
	if c < 0 || c >= cols {
		return -1
	}
	return c
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

func writeAt(row []rune, col int, s string) {
	for i, r := range []rune(s) {
		if col+i >= 0 && col+i < len(row) {
			row[col+i] = r
		}
	}
}

// ballLines draws the ball at its column, higher rows for higher jumps.
func ballLines(f render.Frame, cols int) []string {
	rows := make([][]rune, ballRows)
	for i := range rows {
		rows[i] = blankRow(cols)
	}
	if f.HasSection && f.Height > 0 {
		level := f.Ball.Jump / (f.Height / 5)
		level = math.Max(0, math.Min(1, level))
		row := ballRows - 1 - int(math.Round(level*float64(ballRows-1)))
		if c := column(f.Ball.X, f.Width, cols); c >= 0 {
			rows[row][c] = 'o'
		}
	}
	out := make([]string, ballRows)
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}

// timelineLines draws the playhead, the bar and sub-beat ticks with bar numbers, the section change
// markers and the comment labels.
func timelineLines(f render.Frame, cols int) []string {
	playhead := blankRow(cols)
	ticks := blankRow(cols)
	numbers := blankRow(cols)
	markers := blankRow(cols)
	comments := blankRow(cols)

	center := func(r render.Rect) float64 { return r.X + render.RectWidth/2 }

	for _, bar := range f.Bars {
		for _, sub := range bar.SubBeats {
			if c := column(center(sub), f.Width, cols); c >= 0 {
				ticks[c] = '·'
			}
		}
	}
	for _, bar := range f.Bars {
		c := column(center(bar.Line), f.Width, cols)
		if c < 0 {
			continue
		}
		ticks[c] = '|'
		if bar.Counted {
			writeAt(numbers, c, strconv.Itoa(bar.Number))
		}
	}
	for _, m := range f.Markers {
		if c := column(m.X, f.Width, cols); c >= 0 {
			writeAt(markers, c, m.Content)
		}
	}
	for _, cm := range f.Comments {
		if c := column(cm.Label.X, f.Width, cols); c >= 0 {
			writeAt(comments, c, cm.Label.Content)
		}
	}
	if c := column(center(f.Playhead), f.Width, cols); c >= 0 {
		playhead[c] = '▼'
	}

	lines := []string{string(playhead), string(ticks), string(numbers)}
	if strings.TrimSpace(string(markers)) != "" {
		lines = append(lines, string(markers))
	}
	if strings.TrimSpace(string(comments)) != "" {
		lines = append(lines, string(comments))
	}
	return lines
}

// Summary is a one-line plain text rendering of a frame, used by the headless player.
func Summary(f render.Frame) string {
	if !f.HasSection {
		return "empty timeline"
	}
	var info []string
	for _, t := range f.Info {
		info = append(info, t.Content)
	}
	return fmt.Sprintf("%-12s %s", f.Counter.Content, strings.Join(info, "  "))
}
