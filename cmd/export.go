package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
	"github.com/chatloom/chatloom/internal/export"
)

var (
	exportFormat string
	exportOutDir string
	exportID     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to file",
	Long: `Export stored conversations to various formats (jsonl, md, yaml, json).

You can export all conversations or a specific one by ID.
Use 'chatloom list' to see available conversation IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		_, db, store, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		ctx := context.Background()

		var ids []string
		if exportID != "" {
			ids = []string{exportID}
		} else {
			threads, err := store.ListThreads(ctx)
			if err != nil {
				return fmt.Errorf("failed to list conversations: %w", err)
			}
			for _, t := range threads {
				ids = append(ids, t.ID)
			}
		}

		if len(ids) == 0 {
			fmt.Println("No conversations to export")
			return nil
		}

		if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for _, id := range ids {
			conv, err := store.Load(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load conversation %s: %w", id, err)
			}
			if err := writeExport(exporter, conv); err != nil {
				return err
			}
		}

		fmt.Printf("Exported %d conversation(s) to %s\n", len(ids), exportOutDir)
		return nil
	},
}

func writeExport(exporter export.Exporter, conv *internal.Conversation) error {
	path := filepath.Join(exportOutDir, fmt.Sprintf("%s.%s", conv.ID, exporter.Extension()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := exporter.Export(conv, f); err != nil {
		return fmt.Errorf("failed to export %s: %w", conv.ID, err)
	}
	log.Debug().Str("path", path).Msg("conversation exported")
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: jsonl, md, yaml, json")
	exportCmd.Flags().StringVarP(&exportOutDir, "output", "o", "exports", "Output directory")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Export only the given conversation")
}
