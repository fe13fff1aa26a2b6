package trace

import (
	"fmt"
	"strings"
)

// Level selects how deep into a run events are recorded. Each level adds one
// scope: phase records driver spans, detail adds the batch, debug adds every
// attribute.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at this level.
// LevelError records nothing live; it only keeps the ring for dumps.
func (l Level) ShouldEmit(scope Scope) bool {
	switch {
	case l >= LevelDebug:
		return true
	case l == LevelDetail:
		return scope <= ScopeBatch
	case l == LevelPhase:
		return scope <= ScopeDriver
	}
	return false
}
