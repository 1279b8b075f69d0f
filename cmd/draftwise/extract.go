package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"draftwise/internal/domain"
	"draftwise/internal/service"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract an invoice or quote draft from text",
	Long: `Extract a draft document from free text. The text is taken from the
arguments, or read from stdin when none are given.

Examples:
  draftwise extract --context biz.yaml "Invoice Acme for 3 hours of consulting at 120/h"
  echo "quote 2 logos for Globex" | draftwise extract --type quote --user <uuid>`,
	RunE: runExtract,
}

var extractClientCmd = &cobra.Command{
	Use:   "extract-client [text]",
	Short: "Extract client details from text",
	RunE:  runExtractClient,
}

func init() {
	extractCmd.Flags().String("type", string(domain.DocumentTypeInvoice), "document type: invoice or quote")
	rootCmd.AddCommand(extractCmd, extractClientCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	docType, _ := cmd.Flags().GetString("type")
	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.close()

	ex, err := b.extractor()
	if err != nil {
		return err
	}
	svc := service.NewExtractionService(ex, b.resolver())
	resp, err := svc.Extract(cmd.Context(), b.userID, service.ExtractionInput{
		Text:         text,
		DocumentType: domain.DocumentType(docType),
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func runExtractClient(cmd *cobra.Command, args []string) error {
	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.close()

	ex, err := b.extractor()
	if err != nil {
		return err
	}
	client, err := service.NewExtractionService(ex, b.resolver()).
		ExtractClient(cmd.Context(), b.userID, service.ClientExtractionInput{Text: text})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), client)
}

// readText joins args, or reads all of stdin when there are none.
func readText(args []string, stdin io.Reader) (string, error) {
	text := strings.Join(args, " ")
	if text == "" && stdin != nil {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "reading stdin")
		}
		text = string(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyInput
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
