// Command ntm-parse works on single Notices to Mariners bulletins offline.
//
// Usage:
//
//	ntm-parse parse "bulletins/2024 PogT 05.pdf"
//	ntm-parse parse extracted.txt --name "2024 PogT 05.txt" --now 2024-02-01T06:00:00Z
//	ntm-parse text "bulletins/2024 PogT 05.pdf" > "2024 PogT 05.txt"
//	ntm-parse segment "2024 PogT 05.txt"
//
// The file name (or --name) must follow the bulletin naming pattern; it
// supplies the year, the week and whether the file is the weekly bulletin or
// the active-notice list.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/ntm-import/internal/adapter/pdf"
	"github.com/couchcryptid/ntm-import/internal/domain"
	"github.com/couchcryptid/ntm-import/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ntm-parse",
		Short:         "Parse Notices to Mariners bulletins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(parseCmd())
	root.AddCommand(textCmd())
	root.AddCommand(segmentCmd())
	return root
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a bulletin and print the import result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			now, _ := cmd.Flags().GetString("now")
			verbose, _ := cmd.Flags().GetBool("verbose")

			if now != "" {
				at, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				domain.SetClock(clockwork.NewFakeClockAt(at))
				defer domain.SetClock(nil)
			}

			doc, err := readDocument(args[0], name)
			if err != nil {
				return err
			}

			level := slog.LevelError
			if verbose {
				level = slog.LevelWarn
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			result, err := pipeline.NewTransformer(pdf.NewExtractor(), logger).Transform(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("name", "", "bulletin filename to use instead of the file's base name")
	cmd.Flags().String("now", "", "fixed import time (RFC3339) recorded on every notice")
	cmd.Flags().BoolP("verbose", "v", false, "log parse warnings to stderr")
	return cmd
}

func textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text <file.pdf>",
		Short: "Print the text extracted from a bulletin PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text, err := pdf.NewExtractor().ExtractText(cmd.Context(), content)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

type segmentOutput struct {
	Primary     []string `json:"primary"`
	Translation []string `json:"translation,omitempty"`
	Complete    bool     `json:"complete"`
}

func segmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segment <file>",
		Short: "Print the notice blocks found in a bulletin, paired with their translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pairs := domain.PairBlocks(domain.Segment(text), nil)
			out := make([]segmentOutput, 0, len(pairs))
			for _, p := range pairs {
				s := segmentOutput{Primary: p.Primary.Lines, Complete: p.Primary.Complete}
				if p.Translation != nil {
					s.Translation = p.Translation.Lines
				}
				out = append(out, s)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func readDocument(path, name string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, err
	}
	if name == "" {
		name = filepath.Base(path)
	}
	return domain.RawDocument{Key: []byte(name), Value: content}, nil
}

func readText(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if domain.IsPlainText(path) {
		return string(content), nil
	}
	return pdf.NewExtractor().ExtractText(ctx, content)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
