package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
)

var showLimit int

var (
	// Styles for show command
	convHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	convMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Show messages for a specific conversation",
	Long:  `Replay the stored message history of a conversation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		threadID := args[0]

		_, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		conv, err := store.Load(context.Background(), threadID)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}

		displayConversation(conv)
		return nil
	},
}

func displayConversation(conv *internal.Conversation) {
	title := conv.Name
	if title == "" {
		title = "New Chat"
	}
	fmt.Println(convHeaderStyle.Render(title))

	meta := fmt.Sprintf("ID: %s · %d message(s)", conv.ID, len(conv.Messages))
	if !conv.CreatedAt.IsZero() {
		meta += " · created " + conv.CreatedAt.Local().Format(time.RFC1123)
	}
	fmt.Println(convMetaStyle.Render(meta))

	messages := conv.Messages
	if showLimit > 0 && len(messages) > showLimit {
		fmt.Println(convMetaStyle.Render(fmt.Sprintf("(showing last %d of %d)", showLimit, len(messages))))
		messages = messages[len(messages)-showLimit:]
	}

	for _, msg := range messages {
		style := assistantMessageStyle
		if msg.Role == internal.RoleUser {
			style = userMessageStyle
		}
		fmt.Println(style.Render(msg.Role))
		fmt.Println(messageContentStyle.Render(msg.Content))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Show only the last N messages")
}
