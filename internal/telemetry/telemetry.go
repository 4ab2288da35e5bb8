// Package telemetry renders a finished run as an animated flight view in
// the terminal: scrolling altitude and thrust charts next to a live stats
// panel.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/felipebogaertsm/rocket-solver/internal/sim"
)

const (
	chartWidth  = 56
	chartHeight = 8
	window      = 400 // samples visible in the scrolling charts
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	chartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(38)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model plays a recorded run back at a fixed frame rate.
type Model struct {
	name    string
	result  *sim.Result
	head    int
	stride  int
	running bool
}

// NewModel wraps a finished run for playback. stride is the number of
// samples advanced per frame; pass 0 to size it so the playback lasts
// about twenty seconds.
func NewModel(name string, result *sim.Result, stride int) Model {
	if stride <= 0 {
		stride = len(result.Time) / 1200
		if stride < 1 {
			stride = 1
		}
	}
	return Model{
		name:    name,
		result:  result,
		stride:  stride,
		running: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
		case "[":
			m.head -= 10 * m.stride
			if m.head < 0 {
				m.head = 0
			}
		case "]":
			m.head += 10 * m.stride
			if m.head >= len(m.result.Time) {
				m.head = len(m.result.Time) - 1
			}
		}
	case TickMsg:
		if m.running && m.head < len(m.result.Time)-1 {
			m.head += m.stride
			if m.head >= len(m.result.Time) {
				m.head = len(m.result.Time) - 1
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.result.Time) == 0 {
		return "no data\n"
	}
	i := m.head

	var charts strings.Builder
	charts.WriteString(chartStyle.Render(plot(m.result.Altitude, i, "Altitude [m]")) + "\n")
	charts.WriteString(chartStyle.Render(plot(m.result.Thrust, i, "Thrust [N]")))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "REPLAYING"
	if !m.running {
		status = "PAUSED"
	} else if i == len(m.result.Time)-1 {
		status = "DONE"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(row("Time", "%.2f s", m.result.Time[i]))
	s.WriteString(row("Phase", "%s", m.result.Phase[i]))
	s.WriteString(row("Altitude", "%.0f m", m.result.Altitude[i]))
	s.WriteString(row("Velocity", "%.1f m/s", m.result.Velocity[i]))
	s.WriteString(row("Mach", "%.2f", m.result.Mach[i]))
	s.WriteString(row("Pressure", "%.2f MPa", m.result.Pressure[i]*1e-6))
	s.WriteString(row("Thrust", "%.0f N", m.result.Thrust[i]))
	s.WriteString(row("Propellant", "%.2f kg", m.result.PropellantMass[i]))

	s.WriteString("\nEVENTS\n")
	shown := 0
	for _, e := range m.result.Events {
		if e.Time > m.result.Time[i] {
			break
		}
		s.WriteString(eventStyle.Render(fmt.Sprintf("%7.2fs  %s", e.Time, e.Kind)) + "\n")
		shown++
	}
	if shown == 0 {
		s.WriteString(labelStyle.Render("  (none yet)") + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart [ ]:Scrub Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, charts.String(), statsStyle.Render(s.String()))
}

func row(label, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...)) + "\n"
}

func plot(series []float64, head int, caption string) string {
	lo := head - window
	if lo < 0 {
		lo = 0
	}
	data := series[lo : head+1]
	if len(data) < 2 {
		data = []float64{0, 0}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Caption(caption))
}

// Run starts the playback UI and blocks until it exits. stride is passed
// through to NewModel.
func Run(name string, result *sim.Result, stride int) error {
	p := tea.NewProgram(NewModel(name, result, stride))
	_, err := p.Run()
	return err
}
