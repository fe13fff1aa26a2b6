package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"semdoc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [registry paths...]",
	Short: "Verify rendered comments against a golden file",
	Long: `Check renders the registry like "semdoc render" and compares the text
output with a golden file, printing a unified diff on drift. With --update the
golden file is rewritten instead.`,
	RunE: runCheck,
}

func init() {
	addRenderFlags(checkCmd)
	checkCmd.Flags().String("golden", "", "golden file (default from [render].golden)")
	checkCmd.Flags().Bool("update", false, "rewrite the golden file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	setup, err := prepareRender(cmd, args)
	if err != nil {
		return err
	}
	golden, _ := cmd.Flags().GetString("golden")
	if golden == "" && setup.manifest != nil {
		golden = setup.manifest.resolve(setup.manifest.Config.Render.Golden)
	}
	if golden == "" {
		return fmt.Errorf("no golden file: pass --golden or set [render].golden in %s", manifestName)
	}

	hasErrors := printDiagnostics(cmd, setup.loadDiags)
	results, err := renderSetupAll(cmd.Context(), setup, "check "+setup.descriptor.Name(), false)
	if err != nil {
		return err
	}
	if printDiagnostics(cmd, driver.Diagnostics(results)) {
		hasErrors = true
	}

	if update, _ := cmd.Flags().GetBool("update"); update {
		if err := os.WriteFile(golden, []byte(driver.FormatText(results)), 0o644); err != nil {
			return err
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "updated %s\n", golden)
		}
		return nil
	}

	want, err := os.ReadFile(golden)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("golden file %s does not exist; run with --update to create it", golden)
		}
		return err
	}
	diff, err := driver.Check(results, string(want), golden)
	if err != nil {
		return err
	}
	if diff != "" {
		fmt.Fprint(cmd.OutOrStdout(), diff)
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("drift:"), "rendered comments differ from", golden)
		return errSilent
	}
	if !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("ok:"), len(results), "attributes match", golden)
	}
	if hasErrors {
		return errSilent
	}
	return nil
}
