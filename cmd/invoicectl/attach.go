package main

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

var attachCmd = &cobra.Command{
	Use:   "attach <id> <file>",
	Short: "Backfill the source document onto an existing invoice",
	Long: `Attach stores the given document on an invoice that was saved without
one, typically a manually entered record whose paper original turned up
later.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, path := args[0], args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		src := entity.SourceFile{
			Base64:   base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
		}
		if err := a.store.AttachSourceFile(cmd.Context(), a.session.User().Token, id, src); err != nil {
			return err
		}
		fmt.Printf("Attached %s to invoice %s.\n", filepath.Base(path), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
