// Package formats holds the catalog of comment formats: the built-in set
// embedded in the binary and any user catalogs layered on top of it.
package formats

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"semdoc/internal/comment"
)

//go:embed defaults.toml
var defaultsTOML string

// ErrUnknownFormat is returned by Lookup for a name the registry lacks.
var ErrUnknownFormat = errors.New("unknown comment format")

// Registry maps format names to descriptors. It is read-only once built.
type Registry struct {
	byName map[string]*comment.Descriptor
}

type catalog struct {
	Formats map[string]comment.Config `toml:"formats"`
}

// Default returns the built-in registry. It is built on first use.
var Default = sync.OnceValues(func() (*Registry, error) {
	return Parse("defaults.toml", strings.NewReader(defaultsTOML))
})

// Parse decodes a TOML catalog. Keys that no option recognises are errors,
// since a misspelt option would otherwise fall back to its default silently.
func Parse(name string, r io.Reader) (*Registry, error) {
	var cat catalog
	meta, err := toml.NewDecoder(r).Decode(&cat)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("formats") {
		return nil, fmt.Errorf("%s: missing [formats]", name)
	}

	reg := &Registry{byName: make(map[string]*comment.Descriptor, len(cat.Formats))}
	for fname, cfg := range cat.Formats {
		d, err := comment.NewDescriptor(fname, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		reg.byName[fname] = d
	}
	return reg, nil
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

// Load returns the built-in registry overridden by each file in paths, in
// order. Later files win on name clashes.
func Load(paths ...string) (*Registry, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		user, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		reg = reg.With(user)
	}
	return reg, nil
}

// With returns a registry holding r's formats overridden by other's. Neither
// input is modified.
func (r *Registry) With(other *Registry) *Registry {
	out := &Registry{byName: make(map[string]*comment.Descriptor, len(r.byName)+len(other.byName))}
	for name, d := range r.byName {
		out.byName[name] = d
	}
	for name, d := range other.byName {
		out.byName[name] = d
	}
	return out
}

// Lookup returns the descriptor registered as name.
func (r *Registry) Lookup(name string) (*comment.Descriptor, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, name, strings.Join(r.Names(), ", "))
}

// Names lists the registered formats in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int { return len(r.byName) }
