package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation",
	Long: `Delete a conversation's name and all of its checkpoints.

Deleting an unknown identifier is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		threadID := args[0]

		_, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := store.Delete(context.Background(), threadID); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}

		fmt.Printf("Deleted %s\n", threadID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
