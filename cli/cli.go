// cli/cli.go
// Package cli provides the interactive chat interface for the wikirag application.
package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/logging"
	"github.com/mwiater/wikirag/internal/pipeline"
	"github.com/mwiater/wikirag/internal/prompt"
	"github.com/mwiater/wikirag/internal/providers"
)

// Config represents the shared application configuration for the CLI.
type Config = appconfig.Config

// chatMessage represents a single message exchanged with the model.
type chatMessage = providers.ChatMessage

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewStyleSelector is the state where the user selects an answer style.
	viewStyleSelector viewState = iota
	// viewChat is the state where the user is interacting with the chat.
	viewChat
)

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	config           *Config
	session          *pipeline.Session
	state            viewState
	isLoading        bool
	err              error
	styleList        list.Model
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	chatHistory      []chatMessage
	responseBuf      strings.Builder
	stageLine        string
	lastTopic        string
	lastFallback     bool
	selectedStyle    string
	width, height    int
	program          *tea.Program
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *Config, session *pipeline.Session) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask about anything on Wikipedia..."
	ta.Focus()
	ta.Prompt = "Question: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	styles := prompt.Styles()
	styleItems := make([]list.Item, len(styles))
	for i, name := range styles {
		styleItems[i] = item{title: name, desc: prompt.Describe(name)}
	}
	styleList := list.New(styleItems, list.NewDefaultDelegate(), 0, 0)
	styleList.Title = "Select an Answer Style"

	vp := viewport.New(100, 5)

	m := &model{
		ctx:       ctx,
		config:    cfg,
		session:   session,
		state:     viewStyleSelector,
		spinner:   s,
		textArea:  ta,
		styleList: styleList,
		viewport:  vp,
	}

	// An explicitly configured style skips the selector; the built-in
	// default still goes through it.
	if cfg.StyleSet && prompt.Valid(cfg.Style) {
		m.selectedStyle = cfg.Style
		m.state = viewChat
	}

	return m
}

// item represents a selectable item in a Bubble Tea list.
type item struct {
	title string
	desc  string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering.
func (i item) FilterValue() string { return i.title }

// stageMsg is a message sent as the retrieval pipeline advances.
type stageMsg string

// retrievedMsg is a message sent when retrieval has completed and streaming begins.
type retrievedMsg struct {
	topic    string
	fallback bool
}

// streamChunkMsg is a message sent when a new chunk of a streaming response is received.
type streamChunkMsg string

// streamEndMsg is a message sent when a streaming response has completed.
type streamEndMsg struct{}

// streamErr is a message sent when an error occurs during a streaming response.
type streamErr struct{ error }

// noContentMsg is a message sent when no Wikipedia content could be found for a question.
type noContentMsg struct{}

// tickMsg is a message sent at regular intervals, used for animations and timed updates.
type tickMsg time.Time

// askCmd creates a Bubble Tea command that retrieves Wikipedia context for the
// latest question and streams the model's answer back to the program.
func askCmd(ctx context.Context, p *tea.Program, session *pipeline.Session, question, style string) tea.Cmd {
	return func() tea.Msg {
		log.Printf("[wikirag] Outgoing question: style='%s', question='%s'", style, question)

		go func() {
			retrieved, err := session.AnswerStream(ctx, question, style,
				func(format string, args ...any) {
					p.Send(stageMsg(fmt.Sprintf(format, args...)))
				},
				providers.StreamCallbacks{
					OnChunk: func(content string) error {
						p.Send(streamChunkMsg(content))
						return nil
					},
					OnComplete: func() error {
						p.Send(streamEndMsg{})
						return nil
					},
				})
			if err != nil {
				if err == pipeline.ErrNoContent {
					p.Send(noContentMsg{})
					return
				}
				p.Send(streamErr{error: err})
				return
			}
			p.Send(retrievedMsg{topic: retrieved.Topic, fallback: retrieved.Retrieved.Fallback})
		}()

		return nil
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the Bubble Tea model and returns a command to start the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.state == viewChat && !m.isLoading {
				m.state = viewStyleSelector
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.styleList.SetSize(msg.Width-2, msg.Height-4)
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 5
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight

	case stageMsg:
		m.stageLine = string(msg)
		return m, nil

	case retrievedMsg:
		m.lastTopic = msg.topic
		m.lastFallback = msg.fallback
		return m, nil

	case streamChunkMsg:
		m.responseBuf.WriteString(string(msg))
		m.viewport.GotoBottom()
		return m, nil

	case streamEndMsg:
		if m.responseBuf.Len() > 0 {
			m.chatHistory = append(m.chatHistory, chatMessage{
				Role:    providers.RoleAssistant,
				Content: m.responseBuf.String(),
			})
			m.responseBuf.Reset()
		}
		m.isLoading = false
		m.stageLine = ""
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case noContentMsg:
		m.chatHistory = append(m.chatHistory, chatMessage{
			Role:    providers.RoleAssistant,
			Content: "No relevant Wikipedia content found for your question.",
		})
		m.isLoading = false
		m.stageLine = ""
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case streamErr:
		m.isLoading = false
		m.stageLine = ""
		m.err = msg.error
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	switch m.state {
	case viewStyleSelector:
		m.styleList, cmd = m.styleList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selectedItem, ok := m.styleList.SelectedItem().(item); ok {
				m.selectedStyle = selectedItem.Title()
				m.state = viewChat
				m.err = nil
				m.textArea.Focus()
			}
		}

	case viewChat:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			userInput := strings.TrimSpace(m.textArea.Value())
			if userInput != "" && !m.isLoading {
				m.requestStartTime = time.Now()
				m.chatHistory = append(m.chatHistory, chatMessage{Role: providers.RoleUser, Content: userInput})
				m.textArea.Reset()
				m.isLoading = true
				m.err = nil
				m.stageLine = ""

				cmds = append(cmds, m.spinner.Tick, askCmd(m.ctx, m.program, m.session, userInput, m.selectedStyle), tickCmd())
			}
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case viewStyleSelector:
		listView := m.styleList.View()
		if title := m.styleList.Title; title != "" && !strings.Contains(listView, title) {
			listView = fmt.Sprintf("%s\n\n%s", title, listView)
		}
		return lipgloss.NewStyle().Margin(1, 2).Render(listView)

	case viewChat:
		return m.chatView()

	default:
		return "Unknown state"
	}
}

// chatView renders the chat interface, including the header, chat history,
// current response (if streaming), and the input text area.
func (m *model) chatView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	styleInfo := fmt.Sprintf("Style: %s", m.selectedStyle)
	modelInfo := fmt.Sprintf("Model: %s", m.config.ChatModel)
	topKInfo := fmt.Sprintf("TopK: %d", m.config.TopK)

	topicInfo := "Topic: none"
	if m.lastTopic != "" {
		topicInfo = fmt.Sprintf("Topic: %s", m.lastTopic)
		if m.lastFallback {
			topicInfo += " (fallback)"
		}
	}

	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("wikirag"),
		headerStyle.Render(styleInfo),
		headerStyle.MarginLeft(1).Render(modelInfo),
		headerStyle.MarginLeft(1).Render(topKInfo),
		headerStyle.MarginLeft(1).Render(topicInfo),
	)

	help := lipgloss.NewStyle().Render(" (tab to change style, esc to quit)")
	builder.WriteString(status + help + "\n\n")

	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

	for _, msg := range m.chatHistory {
		var role string
		if msg.Role == providers.RoleAssistant {
			role = assistantStyle.Render("Assistant: ")
		} else {
			role = userStyle.Render("You: ")
		}
		wrappedContent := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(msg.Content)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrappedContent) + "\n")
	}

	if m.responseBuf.Len() > 0 {
		role := assistantStyle.Render("Assistant: ")
		wrappedContent := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(m.responseBuf.String())
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrappedContent))
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		stage := m.stageLine
		if stage == "" {
			stage = "Thinking..."
		}
		builder.WriteString(fmt.Sprintf("\n%s %s %ss", m.spinner.View(), stage, timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

// StartGUI initializes and runs the interactive TUI for Wikipedia chat.
func StartGUI(ctx context.Context, cfg *appconfig.Config, session *pipeline.Session, cancel context.CancelFunc) {
	if cfg == nil {
		log.Fatalf("Failed to start: configuration is not loaded")
	}
	if session == nil {
		log.Fatalf("Failed to start: pipeline session is not initialized")
	}

	f, err := tea.LogToFile(cfg.LogFilePath(), "debug")
	if err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer f.Close()
	defer func() {
		log.Println("Cancelling all running requests...")
		cancel()
	}()

	m := initialModel(ctx, cfg, session)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.program = p

	if _, err := p.Run(); err != nil {
		logging.LogEvent("chat UI terminated with error: %v", err)
		log.Fatalf("Error running program: %v", err)
	}
}
