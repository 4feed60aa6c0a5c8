package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Mint a new conversation identifier",
	Long: `Print a fresh conversation identifier.

Nothing is written to storage until the first message is submitted;
conversations are named from their first message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(uuid.NewString())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
