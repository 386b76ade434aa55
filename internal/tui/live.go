// Package tui replays receding-horizon runs as a live terminal animation.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/solver"
)

const (
	canvasWidth  = 70
	canvasHeight = 22
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Sample is one recorded instant of a receding-horizon run.
type Sample struct {
	T   float64
	Pos [][2]float64
}

// Recorder collects samples while the receding-horizon driver advances the
// true state.
type Recorder struct {
	positionDims [][2]int
	samples      []Sample
}

func NewRecorder(positionDims [][2]int) *Recorder {
	return &Recorder{positionDims: positionDims}
}

func (r *Recorder) OnAdvance(t float64, x *mat.VecDense) {
	pos := make([][2]float64, len(r.positionDims))
	for i, dims := range r.positionDims {
		pos[i] = [2]float64{x.AtVec(dims[0]), x.AtVec(dims[1])}
	}
	r.samples = append(r.samples, Sample{T: t, Pos: pos})
}

func (r *Recorder) Samples() []Sample { return r.samples }

var _ solver.StepObserver = (*Recorder)(nil)

type tickMsg time.Time

// Model animates recorded samples at a fixed frame rate.
type Model struct {
	scenario  string
	samples   []Sample
	frame     int
	frameRate int
	playing   bool
	trail     map[[2]int]rune
}

func NewModel(scenario string, samples []Sample, frameRate int) Model {
	return Model{
		scenario:  scenario,
		samples:   samples,
		frameRate: frameRate,
		playing:   true,
		trail:     make(map[[2]int]rune),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.frame = 0
			m.trail = make(map[[2]int]rune)
		}
	case tickMsg:
		if m.playing && m.frame < len(m.samples)-1 {
			m.frame++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.samples) == 0 {
		return "no samples recorded\n"
	}

	minX, maxX, minY, maxY := m.bounds()
	canvas := make([][]rune, canvasHeight)
	for r := range canvas {
		canvas[r] = make([]rune, canvasWidth)
		for c := range canvas[r] {
			canvas[r][c] = ' '
		}
	}
	for cell, glyph := range m.trail {
		canvas[cell[1]][cell[0]] = glyph
	}

	sample := m.samples[m.frame]
	for p, pos := range sample.Pos {
		col := int((pos[0] - minX) / (maxX - minX) * float64(canvasWidth-1))
		row := canvasHeight - 1 - int((pos[1]-minY)/(maxY-minY)*float64(canvasHeight-1))
		if col >= 0 && col < canvasWidth && row >= 0 && row < canvasHeight {
			canvas[row][col] = rune('1' + p)
			m.trail[[2]int{col, row}] = '.'
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s  t=%.2fs  frame %d/%d", m.scenario, sample.T, m.frame+1, len(m.samples))))
	sb.WriteByte('\n')
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	for p, pos := range sample.Pos {
		sb.WriteString(statStyle.Render(fmt.Sprintf("player %d: (%7.2f, %7.2f)", p+1, pos[0], pos[1])))
		sb.WriteByte('\n')
	}
	sb.WriteString(helpStyle.Render("space pause · r restart · q quit"))
	sb.WriteByte('\n')
	return sb.String()
}

func (m Model) bounds() (minX, maxX, minY, maxY float64) {
	first := true
	for _, s := range m.samples {
		for _, pos := range s.Pos {
			if first {
				minX, maxX, minY, maxY = pos[0], pos[0], pos[1], pos[1]
				first = false
				continue
			}
			if pos[0] < minX {
				minX = pos[0]
			}
			if pos[0] > maxX {
				maxX = pos[0]
			}
			if pos[1] < minY {
				minY = pos[1]
			}
			if pos[1] > maxY {
				maxY = pos[1]
			}
		}
	}
	if maxX-minX < 1e-9 {
		maxX = minX + 1
	}
	if maxY-minY < 1e-9 {
		maxY = minY + 1
	}
	return minX, maxX, minY, maxY
}
