// Package ast holds the source-position types shared by every layer of the
// checker. The term- and type-level syntax trees themselves belong to the
// surrounding type-checker (name resolution, parsing); this package only
// carries the positions that flow from there into reasons and reports.
package ast

import "fmt"

// Pos identifies a single point in a source file.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

// Span identifies a half-open range in a source file.
type Span struct {
	Start Pos
	End   Pos
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column)
}
