package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"semdoc/internal/attrs"
	"semdoc/internal/comment"
	"semdoc/internal/diag"
	"semdoc/internal/driver"
	"semdoc/internal/formats"
	"semdoc/internal/trace"
)

// renderSetup is everything render and check share.
type renderSetup struct {
	manifest   *projectManifest
	descriptor *comment.Descriptor
	docs       []attrs.AttributeDoc
	loadDiags  *diag.Bag
	opts       driver.Options
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "comment format name (default from semdoc.toml)")
	cmd.Flags().StringSlice("formats", nil, "extra comment format catalogs (TOML)")
	cmd.Flags().Int("width", 0, "override max_width of the format")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0 = auto)")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk render cache")
}

// prepareRender resolves the manifest, format and registry inputs. Flags win
// over semdoc.toml.
func prepareRender(cmd *cobra.Command, args []string) (*renderSetup, error) {
	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return nil, err
	}
	var mcfg renderConfig
	if manifest != nil {
		mcfg = manifest.Config.Render
	}

	formatName, _ := cmd.Flags().GetString("format")
	if formatName == "" {
		formatName = mcfg.Format
	}
	if formatName == "" {
		return nil, fmt.Errorf("no comment format: pass --format or set [render].format in %s", manifestName)
	}

	catalogs, _ := cmd.Flags().GetStringSlice("formats")
	if !cmd.Flags().Changed("formats") && manifest != nil {
		for _, f := range mcfg.Formats {
			catalogs = append(catalogs, manifest.resolve(f))
		}
	}
	d, err := lookupDescriptor(formatName, catalogs)
	if err != nil {
		return nil, err
	}
	if width, _ := cmd.Flags().GetInt("width"); width > 0 {
		cfg := d.Config()
		cfg.MaxWidth = width
		if d, err = comment.NewDescriptor(d.Name(), cfg); err != nil {
			return nil, err
		}
	}

	paths := args
	if len(paths) == 0 && manifest != nil && mcfg.Registry != "" {
		paths = []string{manifest.resolve(mcfg.Registry)}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no registry: pass paths or set [render].registry in %s", manifestName)
	}
	loadDiags := diag.NewBag(0)
	docs, err := attrs.Load(loadDiags, paths...)
	if err != nil {
		return nil, err
	}
	tracer := trace.FromContext(cmd.Context())
	trace.Point(tracer, trace.ScopeDriver, "format", d.Name()+" "+d.Fingerprint()[:12], trace.ParentFrom(cmd.Context()))
	trace.Point(tracer, trace.ScopeDriver, "registry", strconv.Itoa(len(docs))+" attributes", trace.ParentFrom(cmd.Context()))

	jobs, _ := cmd.Flags().GetInt("jobs")
	if !cmd.Flags().Changed("jobs") {
		jobs = mcfg.Jobs
	}
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	opts := driver.Options{Jobs: jobs, MaxDiagnostics: maxDiags}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache && mcfg.cacheEnabled() {
		cache, err := driver.OpenDiskCache("semdoc")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "semdoc: cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	return &renderSetup{
		manifest:   manifest,
		descriptor: d,
		docs:       docs,
		loadDiags:  loadDiags,
		opts:       opts,
	}, nil
}

func lookupDescriptor(name string, catalogs []string) (*comment.Descriptor, error) {
	reg, err := formats.Load(catalogs...)
	if err != nil {
		return nil, err
	}
	return reg.Lookup(name)
}

// readInput reads the named file, or stdin for "-" or no name.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

// printDiagnostics writes bag to stderr unless --quiet, and reports whether
// it holds errors.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) bool {
	if bag == nil || bag.Len() == 0 {
		return false
	}
	if !quiet(cmd) {
		fmt.Fprintln(cmd.ErrOrStderr(), colorizeDiagnostics(diag.FormatShort(bag.Items())))
	}
	return bag.HasErrors()
}
