// Command barista-cli is a terminal voice client for the barista server.
// It records a clip from the microphone, submits it together with the order
// state it holds (the server keeps none), and renders the conversation and
// the order slots as they fill in.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/barista-core/core/audio"
	"github.com/koscakluka/barista-core/core/audio/miniaudio"
	"github.com/muesli/reflow/wordwrap"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	baristaStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	slotSetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	slotGapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type exchange struct {
	speaker string
	text    string
}

type turnDoneMsg struct{ result *turnResult }

type turnFailedMsg struct{ err error }

type model struct {
	client   *turnClient
	recorder *miniaudio.Recorder

	recording bool
	busy      bool
	spinner   spinner.Model

	state   json.RawMessage
	history []exchange
	errMsg  string

	width int
}

func newModel(client *turnClient, recorder *miniaudio.Recorder) model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return model{
		client:   client,
		recorder: recorder,
		spinner:  s,
		width:    80,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.recorder.Stop()
			}
			return m, tea.Quit

		case " ":
			return m.toggleRecording()
		}

	case turnDoneMsg:
		m.busy = false
		m.errMsg = ""
		m.state = msg.result.UpdatedState
		m.history = append(m.history,
			exchange{speaker: "You", text: msg.result.UserTranscript},
			exchange{speaker: "Barista", text: msg.result.AIText},
		)

	case turnFailedMsg:
		m.busy = false
		m.errMsg = msg.err.Error()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) toggleRecording() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	if !m.recording {
		if err := m.recorder.Start(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.recording = true
		m.errMsg = ""
		return m, nil
	}

	pcm, err := m.recorder.Stop()
	m.recording = false
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.busy = true
	encoding := m.recorder.EncodingInfo()
	state := m.state
	client := m.client
	return m, func() tea.Msg {
		wav, err := audio.EncodeWAV(pcm, encoding)
		if err != nil {
			return turnFailedMsg{err: err}
		}
		result, err := client.submitTurn(wav, state)
		if err != nil {
			return turnFailedMsg{err: err}
		}
		return turnDoneMsg{result: result}
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Barista ☕ voice order"))
	b.WriteString("\n\n")

	b.WriteString(paneStyle.Width(m.width - 4).Render(m.conversationView()))
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(m.width - 4).Render(m.orderView()))
	b.WriteString("\n")

	switch {
	case m.recording:
		b.WriteString(userStyle.Render("● recording — press space to send"))
	case m.busy:
		b.WriteString(m.spinner.View() + " waiting for the barista...")
	default:
		b.WriteString(hintStyle.Render("space: record/send  q: quit"))
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg))
	}

	return b.String()
}

func (m model) conversationView() string {
	if len(m.history) == 0 {
		return hintStyle.Render("Press space and say what you'd like to order.")
	}

	width := max(m.width-8, 20)
	var lines []string
	for _, e := range m.history {
		style := userStyle
		if e.speaker == "Barista" {
			style = baristaStyle
		}
		lines = append(lines, style.Render(e.speaker+": ")+wordwrap.String(e.text, width))
	}
	return strings.Join(lines, "\n")
}

func (m model) orderView() string {
	slots := decodeSlots(m.state)

	renderSlot := func(label string, value *string) string {
		if value == nil {
			return slotGapStyle.Render(label + ": —")
		}
		return slotSetStyle.Render(label + ": " + *value)
	}

	parts := []string{
		renderSlot("drink", slots.DrinkType),
		renderSlot("size", slots.Size),
		renderSlot("milk", slots.Milk),
		renderSlot("name", slots.Name),
	}
	if len(slots.Extras) > 0 {
		parts = append(parts, slotSetStyle.Render("extras: "+strings.Join(slots.Extras, ", ")))
	}
	if slots.IsComplete {
		parts = append(parts, slotSetStyle.Render("✔ complete"))
	}

	return strings.Join(parts, "  ")
}

func main() {
	serverURL := os.Getenv("BARISTA_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8000"
	}

	recorder, err := miniaudio.NewRecorder()
	if err != nil {
		log.Fatalf("recorder error: %v", err)
	}
	defer recorder.Close()

	client := &turnClient{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	if _, err := tea.NewProgram(newModel(client, recorder), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "barista-cli error: %v\n", err)
		os.Exit(1)
	}
}
