package diag

import "fmt"

// Pos is a 1-based position inside a note. The zero Pos means "whole subject".
type Pos struct {
	Line int
	Col  int
}

func (p Pos) IsZero() bool { return p.Line == 0 && p.Col == 0 }

func (p Pos) String() string {
	if p.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Less orders positions by line, then column.
func (p Pos) Less(o Pos) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Subject  string
	Pos      Pos
	Message  string
}

func New(sev Severity, code Code, pos Pos, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Pos: pos, Message: msg}
}

// WithSubject returns a copy of d attributed to subject.
func (d Diagnostic) WithSubject(subject string) Diagnostic {
	d.Subject = subject
	return d
}
