package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations",
	Long:  `List all stored conversations, most recently active first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		threads, err := store.ListThreads(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}

		displayThreads(threads)
		return nil
	},
}

func displayThreads(threads []internal.Thread) {
	if len(threads) == 0 {
		fmt.Println(headerStyle.Render("No conversations found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(threads)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, thread := range threads {
		name := thread.Name
		if name == "" {
			name = "New Chat"
		}
		name = truncateName(name, 50)
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
		name = nameStyle.Render(name)

		msgCount := countStyle.Render(strconv.Itoa(thread.MessageCount))
		updated := dateStyle.Render(formatRelativeTime(thread.UpdatedAt))

		// Show short ID (first 8 chars) for readability, but it's the full identifier
		shortID := thread.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, name, msgCount, updated)
	}

	_ = w.Flush()
	fmt.Println()
	if len(threads) > 0 {
		fmt.Println(idStyle.Render("Tip: Use the full ID (e.g., ") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(threads[0].ID) +
			idStyle.Render(") with `chatloom show <id>`"))
	}
}

// truncateName shortens a display name to max runes, never cutting inside
// a multibyte character.
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-3]) + "..."
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
