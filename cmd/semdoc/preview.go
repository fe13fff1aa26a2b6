package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"semdoc/internal/comment"
	"semdoc/internal/markdown"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file|-]",
	Short: "Show a note as full Markdown HTML next to its rendered comment",
	Long: `Preview renders a Markdown note with a complete CommonMark/GFM engine, which
is useful for spotting constructs the comment renderer degrades. With --format
the comment rendering follows it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("format", "", "also render the note as a comment in this format")
	previewCmd.Flags().StringSlice("formats", nil, "extra comment format catalogs (TOML)")
	previewCmd.Flags().String("brief", "", "brief used for the comment rendering")
}

func runPreview(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := writeReferenceHTML(out, src); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		return nil
	}
	catalogs, _ := cmd.Flags().GetStringSlice("formats")
	d, err := lookupDescriptor(name, catalogs)
	if err != nil {
		return err
	}
	brief, _ := cmd.Flags().GetString("brief")
	fmt.Fprintf(out, "\n--- %s ---\n%s\n", d.Name(), comment.Render(brief, markdown.Parse(src), d))
	return nil
}

// writeReferenceHTML converts src with goldmark and GFM, the reference for
// what a full Markdown engine makes of the note.
func writeReferenceHTML(w io.Writer, src string) error {
	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return fmt.Errorf("markdown preview: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
