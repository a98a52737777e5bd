package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ridebird/ride-cli/internal/api"
	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/poll"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/spf13/cobra"
)

type messagesMsg struct {
	result cache.Result
}

type sendDoneMsg struct {
	err error
}

type chatViewModel struct {
	app         *app
	ctx         context.Context
	tripID      domain.TripID
	counterpart domain.UserID
	key         cache.Key
	fetch       cache.FetchFunc
	controller  *poll.Controller
	updates     <-chan cache.Result

	input    textinput.Model
	messages []domain.ChatMessage
	err      error

	promptStyle lipgloss.Style
	mineStyle   lipgloss.Style
	theirStyle  lipgloss.Style
	errStyle    lipgloss.Style
}

func newChatViewModel(app *app, ctx context.Context, tripID domain.TripID, counterpart domain.UserID, controller *poll.Controller, updates <-chan cache.Result) chatViewModel {
	input := textinput.New()
	input.Placeholder = "Message (enter to send, esc to leave)"
	input.Focus()

	return chatViewModel{
		app:         app,
		ctx:         ctx,
		tripID:      tripID,
		counterpart: counterpart,
		key:         api.MessagesKey(tripID, counterpart),
		fetch:       app.api.MessagesFetch(tripID, counterpart),
		controller:  controller,
		updates:     updates,
		input:       input,
		promptStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		mineStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		theirStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (m chatViewModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadMessages(), m.waitForUpdate())
}

func (m chatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.app.monitor.Touch()

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			body := strings.TrimSpace(m.input.Value())
			if body == "" {
				return m, nil
			}
			m.input.Reset()
			return m, m.sendMessage(body)
		case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace:
			m.app.monitor.Keystroke()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case messagesMsg:
		if msg.result.Err != nil {
			m.err = msg.result.Err
		} else if messages, ok := msg.result.Data.([]domain.ChatMessage); ok {
			m.messages = messages
			m.err = nil
		}
		return m, m.waitForUpdate()

	case sendDoneMsg:
		m.err = msg.err
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m chatViewModel) View() string {
	lines := []string{m.promptStyle.Render(fmt.Sprintf("Chat · trip %s", m.tripID))}

	if len(m.messages) == 0 {
		lines = append(lines, m.theirStyle.Render("No messages yet."))
	}

	me := m.app.session.User()
	for _, message := range m.messages {
		style := m.theirStyle
		prefix := "them"
		if me != nil && message.SenderID == me.ID {
			style = m.mineStyle
			prefix = "you"
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s · %s  %s", prefix, message.SentAt.Format("15:04"), message.Body)))
	}

	if m.err != nil {
		lines = append(lines, m.errStyle.Render("error: "+m.err.Error()))
	}

	lines = append(lines, "", m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// loadMessages blocks on the cache: a fresh entry returns immediately, a
// stale or missing one fetches through the shared single-flight.
func (m chatViewModel) loadMessages() tea.Cmd {
	return func() tea.Msg {
		value, err := m.app.cache.Get(m.ctx, m.key, m.fetch)
		if err != nil {
			return messagesMsg{result: cache.Result{Err: err}}
		}
		return messagesMsg{result: cache.Result{Data: value}}
	}
}

// waitForUpdate relays poll-driven cache updates into the program.
func (m chatViewModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-m.updates
		if !ok {
			return nil
		}
		return messagesMsg{result: result}
	}
}

// sendMessage writes through the cache so the conversation, chat list and
// unread count invalidate together, then forces a refresh so the sender
// sees their own message without waiting for the next tick.
func (m chatViewModel) sendMessage(body string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.app.api.SendMessage(m.ctx, m.tripID, m.counterpart, body); err != nil {
			return sendDoneMsg{err: err}
		}
		m.controller.ForceRefresh(m.ctx)
		return sendDoneMsg{}
	}
}

func runChatView(cmd *cobra.Command, app *app, tripID domain.TripID, counterpart domain.UserID) error {
	ctx := cmd.Context()

	if err := app.api.MarkChatRead(ctx, tripID, counterpart); err != nil {
		app.log.Debug().Err(err).Msg("mark chat read")
	}

	key := api.MessagesKey(tripID, counterpart)
	updates, dispose := app.cache.Subscribe(key)
	defer dispose()

	refresh := func(ctx context.Context) error {
		_, err := app.cache.Get(ctx, key, app.api.MessagesFetch(tripID, counterpart))
		return err
	}

	controller := poll.NewController(poll.Config{
		Name:     "chat-view",
		Interval: api.PollInterval(key),
	}, app.monitor, refresh, ports.SystemClock{}, app.log)

	stop := controller.Start(ctx)
	defer stop()

	p := tea.NewProgram(
		newChatViewModel(app, ctx, tripID, counterpart, controller, updates),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat view: %w", err)
	}

	return nil
}
