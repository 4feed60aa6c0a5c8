package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
	"github.com/chatloom/chatloom/internal/llm"
)

var chatThreadID string

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replyLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively in the terminal",
	Long: `Start an interactive chat session.

A new conversation is created unless --thread resumes an existing one.
Replies stream to the terminal as they are generated. Exit with Ctrl-D or
by typing /quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := cfg.RequireProvider(); err != nil {
			return err
		}

		provider := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		ctrl := internal.NewController(store, provider, cfg.SystemPrompt, cfg.RequestTimeout)

		ctx := context.Background()
		threadID := chatThreadID
		if threadID == "" {
			threadID = ctrl.NewConversation()
			fmt.Printf("New conversation %s\n", threadID)
		} else {
			// Replay existing history so the user sees where they left off.
			history, err := ctrl.History(ctx, threadID)
			if err != nil {
				return fmt.Errorf("failed to load conversation: %w", err)
			}
			for _, msg := range history {
				label := replyLabelStyle.Render(msg.Role)
				if msg.Role == internal.RoleUser {
					label = promptStyle.Render(msg.Role)
				}
				fmt.Printf("%s %s\n", label, msg.Content)
			}
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print(promptStyle.Render("you") + " ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "/quit" || input == "/exit" {
				break
			}

			fmt.Print(replyLabelStyle.Render("assistant") + " ")
			_, err := ctrl.StreamTurn(ctx, threadID, input, func(chunk string) error {
				fmt.Print(chunk)
				return nil
			})
			fmt.Println()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				// The user turn is already checkpointed; resubmitting retries.
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatThreadID, "thread", "", "Resume an existing conversation")
}
