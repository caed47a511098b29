package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// MeterFloor is the level shown as an empty bar.
const MeterFloor = -60.0

// peakDecay is how far a held peak falls per poll, in dB.
const peakDecay = 1.5

// MeterReading is one channel level.
type MeterReading struct {
	Label string
	DB    float64
}

// MeterSource polls the device for the current levels.
type MeterSource func(ctx context.Context) ([]MeterReading, error)

type meterMsg struct {
	readings []MeterReading
	err      error
}

// MeterModel is a Bubble Tea model that polls a MeterSource and draws one
// bar per channel with a decaying peak readout.
type MeterModel struct {
	ctx      context.Context
	header   *Header
	source   MeterSource
	interval time.Duration

	readings []MeterReading
	peaks    map[string]float64
	bar      progress.Model
	err      error
	width    int
	polls    int
}

// NewMeterModel creates a meter view polling source every interval.
func NewMeterModel(ctx context.Context, header *Header, interval time.Duration, source MeterSource) MeterModel {
	m := MeterModel{
		ctx:      ctx,
		header:   header,
		source:   source,
		interval: interval,
		peaks:    make(map[string]float64),
		bar:      progress.New(progress.WithScaledGradient(string(SuccessColor), string(ErrorColor)), progress.WithoutPercentage()),
	}
	return m.resize(GetTerminalWidth())
}

func (m MeterModel) resize(width int) MeterModel {
	m.width = clampWidth(width)
	// label + value + padding
	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	m.bar.Width = barWidth
	if m.header != nil {
		m.header.SetWidth(m.width)
	}
	return m
}

func (m MeterModel) poll() tea.Cmd {
	return func() tea.Msg {
		readings, err := m.source(m.ctx)
		return meterMsg{readings: readings, err: err}
	}
}

func (m MeterModel) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return pollMsg{} })
}

type pollMsg struct{}

// Init implements tea.Model
func (m MeterModel) Init() tea.Cmd {
	return m.poll()
}

// Update implements tea.Model
func (m MeterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.peaks = make(map[string]float64)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.resize(msg.Width), nil

	case pollMsg:
		return m, m.poll()

	case meterMsg:
		m.polls++
		m.err = msg.err
		if msg.err == nil {
			m.readings = msg.readings
			for _, r := range msg.readings {
				peak := r.DB
				if held, ok := m.peaks[r.Label]; ok {
					peak = math.Max(peak, held-peakDecay)
				}
				m.peaks[r.Label] = peak
			}
		}
		return m, m.schedule()
	}
	return m, nil
}

// View implements tea.Model
func (m MeterModel) View() string {
	var b strings.Builder
	if m.header != nil {
		b.WriteString(m.header.Render())
		b.WriteString("\n\n")
	}

	if m.polls == 0 {
		b.WriteString(HelpStyle.Render("Waiting for meter values..."))
		b.WriteString("\n")
	}

	for _, r := range m.readings {
		b.WriteString("  ")
		b.WriteString(MeterLabelStyle.Render(r.Label))
		b.WriteString(m.bar.ViewAs(MeterPercent(r.DB)))
		b.WriteString(MeterValueStyle.Render(FormatDB(r.DB)))
		if peak, ok := m.peaks[r.Label]; ok && peak >= 0 {
			b.WriteString(" " + MeterClipStyle.Render("CLIP"))
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorMessageStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q quit · r reset peaks"))
	b.WriteString("\n")
	return b.String()
}

// MeterPercent maps a level in dB onto 0..1 between MeterFloor and 0 dB.
func MeterPercent(db float64) float64 {
	if math.IsNaN(db) || db <= MeterFloor {
		return 0
	}
	if db >= 0 {
		return 1
	}
	return (db - MeterFloor) / -MeterFloor
}

// FormatDB renders a level, "-inf dB" for silence.
func FormatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// RunMeters runs the meter view until the user quits or ctx ends.
func RunMeters(ctx context.Context, header *Header, interval time.Duration, source MeterSource) error {
	model := NewMeterModel(ctx, header, interval, source)
	_, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
