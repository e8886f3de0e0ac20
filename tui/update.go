package tui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronizer/rhythm"
)

// maxBPM caps tempo edits from the keyboard.
const maxBPM = 400

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.columns = msg.Width
		m.progress.Width = msg.Width - 4
		return m, nil
	case tickMsg:
		m.tick()
		return m, tickCmd(m.opts.FPS)
	default:
		return m, nil
	}
}

func (m *model) tick() {
	t := m.player.Tick()
	m.last = t
	m.frame = m.player.FrameAt(m.opts.Style, t.ElapsedMs)
	if len(t.Beats) > 0 {
		m.flash = flashFrames
		m.accent = t.Beats[len(t.Beats)-1].Kind() == rhythm.BeatKindBarStart
	} else if m.flash > 0 {
		m.flash--
	}
	if t.AutoReset {
		m.status = "finished"
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space", "p":
		m.player.PlayPause()
		m.status = ""
	case "r":
		m.player.Reset()
	case "left", "h":
		m.player.SeekPreviousBar()
	case "right", "l":
		m.player.SeekNextBar()
	case "home":
		m.player.SeekFraction(0)
	case "end":
		m.player.SeekFraction(1)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.player.SeekFraction(float64(msg.String()[0]-'0') / 10)
	case "[":
		m.changeTempo(-1)
	case "]":
		m.changeTempo(1)
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	default:
		return m, nil
	}
	m.tick()
	return m, nil
}

// changeTempo edits the BPM of the section under the playhead. The edit resets the transport like every
// other timeline change.
func (m *model) changeTempo(delta float64) {
	tl := m.player.Timeline()
	pos, ok := tl.Locate(m.player.Transport().Elapsed())
	if !ok {
		return
	}
	idx := pos.SectionIndex
	s, ok := tl.Section(idx)
	if !ok {
		return
	}
	s.BPM = math.Max(1, math.Min(maxBPM, s.BPM+delta))
	if err := tl.UpdateSection(idx, s); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("section %d: %s BPM", idx+1, rhythm.FormatBPM(s.BPM))
	m.scheduleSave()
}
