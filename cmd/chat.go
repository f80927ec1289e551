package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/foodfast-cli/internal/adapters/chat"
	"github.com/bnema/foodfast-cli/internal/domain"
)

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Realtime support chat",
	}

	cmd.AddCommand(
		newChatCustomerCmd(app),
		newChatAgentCmd(app),
	)

	return cmd
}

func newChatCustomerCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "customer",
		Short: "Open your support chat",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			channel := chat.NewChannel(app.chatURL, app.state)
			if err := channel.Connect(cmd.Context()); err != nil {
				return err
			}
			defer channel.Close()

			if err := channel.CustomerHandshake(); err != nil {
				return err
			}

			return runChatRepl(cmd, channel, false)
		},
	}
}

func newChatAgentCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Handle customer chats (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}
			if app.state.User().Role != domain.RoleEmployee {
				return fmt.Errorf("chat agent requires an employee account")
			}

			channel := chat.NewChannel(app.chatURL, app.state)
			if err := channel.Connect(cmd.Context()); err != nil {
				return err
			}
			defer channel.Close()

			if err := channel.AgentSubscribe(); err != nil {
				return err
			}

			return runChatRepl(cmd, channel, true)
		},
	}
}

// runChatRepl multiplexes server events and stdin lines onto the terminal.
// Plain lines send messages; /open, /chats and /quit steer the session.
func runChatRepl(cmd *cobra.Command, channel *chat.Channel, agent bool) error {
	out := cmd.OutOrStdout()
	viewer := domain.RoleCustomer
	if agent {
		viewer = domain.RoleEmployee
	}

	notifier := chat.NewTypingNotifier(channel.Typing)
	defer notifier.Stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()

		case event, ok := <-channel.Events():
			if !ok {
				if err := channel.Err(); err != nil {
					return err
				}
				return nil
			}
			printChatEvent(out, event, viewer)

		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				return nil
			}

			line = strings.TrimSpace(line)
			switch {
			case line == "/quit":
				return nil
			case line == "/chats" && agent:
				if err := channel.RefreshRoster(); err != nil {
					return err
				}
			case strings.HasPrefix(line, "/open ") && agent:
				chatID, err := parseOrderID(strings.TrimSpace(strings.TrimPrefix(line, "/open ")))
				if err != nil {
					_, _ = fmt.Fprintf(out, "invalid chat id\n")
					continue
				}
				if err := channel.OpenChat(chatID); err != nil {
					return err
				}
			case line == "":
				continue
			default:
				notifier.Keystroke()
				err := channel.Send(line)
				notifier.Stop()
				switch {
				case errors.Is(err, domain.ErrNoActiveChat):
					_, _ = fmt.Fprintln(out, "no chat open yet")
				case err != nil:
					return err
				}
			}
		}
	}
}

func printChatEvent(out io.Writer, event chat.Event, viewer domain.Role) {
	switch e := event.(type) {
	case chat.SnapshotEvent:
		_, _ = fmt.Fprintf(out, "-- chat #%d (%d messages) --\n", e.Snapshot.ChatID, len(e.Snapshot.History))
		for _, message := range e.Snapshot.History {
			printChatMessage(out, message, viewer)
		}
	case chat.MessageEvent:
		printChatMessage(out, e.Message, viewer)
	case chat.RosterEvent:
		_, _ = fmt.Fprintf(out, "-- open chats: %d --\n", len(e.Chats))
		for _, summary := range e.Chats {
			_, _ = fmt.Fprintf(out, "#%d %s: %s\n", summary.ChatID, summary.Customer, summary.LastText)
		}
	case chat.TypingEvent:
		if len(e.Users) > 0 {
			_, _ = fmt.Fprintf(out, "%s typing...\n", strings.Join(e.Users, ", "))
		}
	case chat.NewChatEvent:
		_, _ = fmt.Fprintf(out, "new chat #%d from %s\n", e.ChatID, e.Customer)
	case chat.DeliveredEvent:
		// Acknowledgements stay silent; the echoed message already printed.
	}
}

func printChatMessage(out io.Writer, message domain.ChatMessage, viewer domain.Role) {
	marker := " "
	if message.Mine(viewer) {
		marker = ">"
	}
	_, _ = fmt.Fprintf(out, "%s %s: %s\n", marker, message.Sender, message.Text)
}
