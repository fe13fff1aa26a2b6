package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"semdoc/internal/attrs"
	"semdoc/internal/diag"
	"semdoc/internal/driver"
	"semdoc/internal/observ"
	"semdoc/internal/trace"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] [registry paths...]",
	Short: "Render every attribute of a registry as a comment",
	Long: `Render reads attribute documentation from YAML registry files or
directories and prints one comment per attribute in the chosen format.`,
	RunE: runRender,
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().String("output", "text", "output format (text|json)")
	renderCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	renderCmd.Flags().Bool("timings", false, "print phase timings to stderr")
}

type renderJSON struct {
	ID          string   `json:"id"`
	Type        string   `json:"type,omitempty"`
	Format      string   `json:"format"`
	Comment     string   `json:"comment"`
	Cached      bool     `json:"cached,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func runRender(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported output %q (must be text or json)", output)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	timer := observ.NewTimer()

	loadPhase := timer.Begin("load")
	setup, err := prepareRender(cmd, args)
	if err != nil {
		return err
	}
	timer.End(loadPhase, humanize.Comma(int64(len(setup.docs)))+" attributes")
	hasErrors := printDiagnostics(cmd, setup.loadDiags)

	start := time.Now()
	renderPhase := timer.Begin("render")
	results, err := renderSetupAll(cmd.Context(), setup, "render "+setup.descriptor.Name(), shouldUseTUI(mode))
	if err != nil {
		return err
	}
	timer.End(renderPhase, setup.descriptor.Name())
	if printDiagnostics(cmd, driver.Diagnostics(results)) {
		hasErrors = true
	}

	out := cmd.OutOrStdout()
	emitPhase := timer.Begin("emit")
	if output == "json" {
		err = writeRenderJSON(out, setup, results)
	} else {
		_, err = io.WriteString(out, driver.FormatText(results))
	}
	if err != nil {
		return err
	}
	timer.End(emitPhase, output)

	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if !quiet(cmd) {
		printSummary(cmd, results, time.Since(start))
	}
	if hasErrors {
		return errSilent
	}
	return nil
}

// renderSetupAll runs the batch under a driver span, with the progress UI
// when asked for.
func renderSetupAll(ctx context.Context, setup *renderSetup, title string, withUI bool) ([]driver.Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "render", trace.ParentFrom(ctx))
	ctx = trace.WithParent(ctx, span)

	var (
		results []driver.Result
		err     error
	)
	if withUI {
		results, err = runRenderWithUI(ctx, title, setup)
	} else {
		results, err = driver.RenderAll(ctx, setup.docs, setup.descriptor, setup.opts)
	}
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.End(humanize.Comma(int64(len(results))) + " attributes")
	return results, nil
}

func writeRenderJSON(w io.Writer, setup *renderSetup, results []driver.Result) error {
	payload := make([]renderJSON, len(results))
	for i, r := range results {
		payload[i] = renderJSON{
			ID:      r.Doc.ID,
			Type:    r.Doc.Type,
			Format:  setup.descriptor.Name(),
			Comment: r.Text,
			Cached:  r.Cached,
		}
		for _, d := range r.Bag.Items() {
			payload[i].Diagnostics = append(payload[i].Diagnostics, diag.FormatShort([]diag.Diagnostic{d}))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printSummary(cmd *cobra.Command, results []driver.Result, elapsed time.Duration) {
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "rendered %s attributes (%s cached) in %s\n",
		humanize.Comma(int64(len(results))), humanize.Comma(int64(cached)), elapsed.Round(time.Millisecond))
}

func docIDs(docs []attrs.AttributeDoc) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
