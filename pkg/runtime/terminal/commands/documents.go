package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

var documentsHeader = []string{"ID", "NAME", "TYPE", "SIZE", "UPLOADED"}

func NewDocumentsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage reference documents",
	}
	cmd.AddCommand(newDocumentsListCmd(env))
	cmd.AddCommand(newDocumentsUploadCmd(env))
	cmd.AddCommand(newDocumentsDeleteCmd(env))
	return cmd
}

func newDocumentsListCmd(env *Env) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			manager, err := env.Documents(ctx)
			if err != nil {
				return err
			}
			docs, err := manager.List(ctx, search)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}
			if len(docs) == 0 {
				cmd.Println("No documents found")
				return nil
			}

			rows := make([][]string, 0, len(docs))
			for _, d := range docs {
				uploaded := ""
				if d.UploadedAt != nil {
					uploaded = d.UploadedAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{d.ID, d.DisplayName(), d.MimeType, strconv.FormatInt(d.Size, 10), uploaded})
			}
			return env.Table.HandleTable(documentsHeader, rows, "document")
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "Match document names")
	return cmd
}

func newDocumentsUploadCmd(env *Env) *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF, Word, Excel or text document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			manager, err := env.Documents(ctx)
			if err != nil {
				return err
			}
			doc, err := manager.Upload(ctx, filepath.Base(args[0]), mimeType, f)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", args[0], err)
			}
			cmd.Printf("Uploaded %s as %s\n", doc.DisplayName(), doc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "type", "", "MIME type, detected from the file extension when empty")
	return cmd
}

func newDocumentsDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			manager, err := env.Documents(ctx)
			if err != nil {
				return err
			}
			if err := manager.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete document %s: %w", args[0], err)
			}
			cmd.Printf("Deleted document %s\n", args[0])
			return nil
		},
	}
}
