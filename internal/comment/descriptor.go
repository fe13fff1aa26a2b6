package comment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ErrInvalidDescriptor is wrapped by every NewDescriptor failure.
var ErrInvalidDescriptor = errors.New("invalid comment format")

// Descriptor is a validated, immutable comment format. It is safe for
// concurrent use.
type Descriptor struct {
	name        string
	cfg         Config
	esc         escaper
	fingerprint string
}

// NewDescriptor validates cfg and builds a Descriptor named name.
func NewDescriptor(name string, cfg Config) (*Descriptor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, name, err)
	}
	cfg = cfg.withDefaults()

	closeEscape, err := resolveCloseEscape(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, name, err)
	}
	cfg.CloseEscape = closeEscape

	d := &Descriptor{
		name: name,
		cfg:  cfg,
		esc:  newEscaper(cfg.Escapes, closeToken(cfg.BlockClose), closeEscape),
	}
	d.fingerprint = fingerprint(cfg)
	return d, nil
}

// MustDescriptor is NewDescriptor for built-in tables; it panics on error.
func MustDescriptor(name string, cfg Config) *Descriptor {
	d, err := NewDescriptor(name, cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// resolveCloseEscape picks the replacement for a literal block_close: the
// explicit close_escape, or the delimiter run through the escape rules when
// that already neutralises it.
func resolveCloseEscape(cfg Config) (string, error) {
	token := closeToken(cfg.BlockClose)
	if token == "" {
		return cfg.CloseEscape, nil
	}
	if err := prefixSeam(cfg.LinePrefix, token); err != nil {
		return "", err
	}
	if cfg.CloseEscape != "" {
		if strings.Contains(cfg.CloseEscape, token) {
			return "", fmt.Errorf("close_escape %q contains block_close %q", cfg.CloseEscape, token)
		}
		return cfg.CloseEscape, nil
	}
	escaped := newEscaper(cfg.Escapes, "", "").rulesOnly(token)
	if strings.Contains(escaped, token) {
		return "", fmt.Errorf("escape rules do not neutralise block_close %q; set close_escape", token)
	}
	return escaped, nil
}

// prefixSeam rejects a line prefix that holds the close token, or ends in a
// proper prefix of it: "*" before "/etc" would close a "*/" comment.
func prefixSeam(prefix, token string) error {
	if strings.Contains(prefix, token) {
		return fmt.Errorf("line_prefix %q contains block_close %q", prefix, token)
	}
	for k := 1; k < len(token); k++ {
		if strings.HasSuffix(prefix, token[:k]) {
			return fmt.Errorf("line_prefix %q can join with text to form block_close %q", prefix, token)
		}
	}
	return nil
}

// closeToken is the delimiter without the padding used to lay it out.
func closeToken(blockClose string) string {
	return strings.TrimSpace(blockClose)
}

func fingerprint(cfg Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		panic(fmt.Sprintf("comment: marshal config: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (d *Descriptor) Name() string        { return d.name }
func (d *Descriptor) LinePrefix() string  { return d.cfg.LinePrefix }
func (d *Descriptor) BlockOpen() string   { return d.cfg.BlockOpen }
func (d *Descriptor) BlockClose() string  { return d.cfg.BlockClose }
func (d *Descriptor) CloseEscape() string { return d.cfg.CloseEscape }
func (d *Descriptor) MaxWidth() int       { return d.cfg.MaxWidth }
func (d *Descriptor) AllowBlankLines() bool {
	return d.cfg.AllowBlankLines
}

// Fingerprint is a stable hash over every option that affects output.
func (d *Descriptor) Fingerprint() string { return d.fingerprint }

// Config returns a copy of the effective configuration, defaults applied.
func (d *Descriptor) Config() Config {
	return d.cfg.withDefaults()
}

// Width measures s the way the wrapper does: code points, or terminal cells
// with width_mode = cells.
func (d *Descriptor) Width(s string) int {
	if d.cfg.WidthMode == WidthCells {
		return runewidth.StringWidth(s)
	}
	return utf8.RuneCountInString(s)
}

// Escape applies the escape rules and the close-delimiter guard to literal text.
func (d *Descriptor) Escape(s string) string {
	return d.esc.text(s)
}
