package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/mirobot/pkg/mirobot"
	"github.com/gwillem/mirobot/pkg/monitor"
)

type MonitorCommand struct {
	Hz int `long:"hz" default:"10" description:"Status sampling frequency"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - distinct colors for each joint
var jointColors = [mirobot.MaxAxis]string{
	"196", // red
	"208", // orange
	"226", // yellow
	"46",  // green
	"51",  // cyan
	"201", // magenta
	"99",  // purple (rail)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type monitorModel struct {
	ctrl       *monitor.Controller
	chart      *streamlinechart.Model
	width      int
	height     int
	logs       []string
	quitting   bool
	machine    mirobot.MachineState
	lastJoints *[mirobot.MaxAxis]float64 // previous sample, to freeze the chart when idle
}

func (m *monitorModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *monitorModel) hasMovement(joints [mirobot.MaxAxis]float64) bool {
	if m.lastJoints == nil {
		return true // first reading, consider it movement
	}
	return joints != *m.lastJoints
}

// Messages from the controller
type sampleMsg monitor.Sample
type logMsg string

func waitForSample(ctrl *monitor.Controller) tea.Cmd {
	return func() tea.Msg {
		return sampleMsg(<-ctrl.Samples())
	}
}

func waitForLog(ctrl *monitor.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func (m *monitorModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *monitorModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func jointName(axis int) string {
	if axis == mirobot.SliderAxis {
		return "rail"
	}
	return fmt.Sprintf("joint%d", axis)
}

func initialMonitorModel(ctrl *monitor.Controller) monitorModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-200, 200),
	)

	for axis := mirobot.MinAxis; axis <= mirobot.MaxAxis; axis++ {
		color := jointColors[axis-1]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(jointName(axis), runes.ThinLineStyle, style)
	}

	return monitorModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSample(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case sampleMsg:
		sample := monitor.Sample(msg)
		if sample.Error == nil {
			m.machine = sample.State.Machine
			if m.hasMovement(sample.State.Joints) {
				for axis := mirobot.MinAxis; axis <= mirobot.MaxAxis; axis++ {
					m.chart.PushDataSet(jointName(axis), sample.State.Joints[axis-1])
				}
				m.chart.DrawAll()
				joints := sample.State.Joints
				m.lastJoints = &joints
			}
		}
		return m, waitForSample(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Monitoring stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Mirobot Monitor"))
	sb.WriteString(fmt.Sprintf(" - %d Hz - %s", m.ctrl.Hz(), m.machine))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for axis := mirobot.MinAxis; axis <= mirobot.MaxAxis; axis++ {
		color := jointColors[axis-1]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + jointName(axis)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *MonitorCommand) Execute(args []string) error {
	robot, _, err := connect()
	if err != nil {
		return err
	}
	defer robot.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := unlockIfNeeded(ctx, robot); err != nil {
		return err
	}

	ctrl, err := monitor.NewController(monitor.Config{
		Robot: robot,
		Hz:    c.Hz,
	})
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(initialMonitorModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
