package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"draftwise/internal/domain"
	"draftwise/internal/workflow"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Draft a document interactively, answering clarification questions",
	Long: `Starts a clarification session on the terminal. Describe the document,
finishing with an empty line; answer any questions the model asks; then
accept, edit or reset the draft.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docType, _ := cmd.Flags().GetString("type")
		dt := domain.DocumentType(docType)
		if !dt.Valid() {
			return eris.Wrapf(domain.ErrInvalidDocumentType, "document type %q", docType)
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
		wf := workflow.New(ex, b.userID, dt)
		return runSession(cmd.Context(), wf, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	sessionCmd.Flags().String("type", string(domain.DocumentTypeInvoice), "document type: invoice or quote")
	rootCmd.AddCommand(sessionCmd)
}

// runSession drives wf from the lines of in until the draft is accepted or
// in is exhausted.
func runSession(ctx context.Context, wf *workflow.Workflow, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		switch st := wf.State().(type) {
		case workflow.Input:
			if st.Draft != "" {
				fmt.Fprintf(out, "Previous text:\n%s\n", st.Draft)
			}
			fmt.Fprintf(out, "Describe the %s (empty line to finish):\n", wf.DocumentType())
			text, ok := readParagraph(scanner)
			if !ok {
				return nil
			}
			if err := wf.SubmitText(ctx, text); err != nil {
				return err
			}

		case workflow.Clarification:
			for i, q := range st.Questions() {
				fmt.Fprintf(out, "%d. %s\n> ", i+1, q)
				answer, ok := readLine(scanner)
				if !ok {
					return nil
				}
				if err := wf.AnswerClarification(i, answer); err != nil {
					return err
				}
			}
			if err := wf.SubmitClarifications(ctx); err != nil {
				if !errors.Is(err, domain.ErrUnansweredQuestions) {
					return err
				}
				fmt.Fprintln(out, "every question needs an answer")
			}

		case workflow.Review:
			for _, w := range wf.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if err := printJSON(out, st.Result); err != nil {
				return err
			}
			fmt.Fprint(out, "[a]ccept, [e]dit or [r]eset? ")
			choice, ok := readLine(scanner)
			if !ok {
				return nil
			}
			switch strings.ToLower(choice) {
			case "a", "accept":
				return nil
			case "e", "edit":
				if err := wf.EditResult(); err != nil {
					return err
				}
			case "r", "reset":
				wf.Reset()
			}

		case workflow.Failed:
			fmt.Fprintf(out, "extraction failed: %s\n", st.Message)
			wf.Reset()

		default:
			return eris.Errorf("unexpected session state %q", wf.State().Status())
		}
	}
}

// readParagraph reads lines up to the first empty one.
func readParagraph(s *bufio.Scanner) (string, bool) {
	var lines []string
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func readLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.Text()), true
}
