package polarity

import (
	"fmt"
	"strings"

	"github.com/sunholo/variance/internal/ast"
)

// RenderedFrame is one line of a rendered reason chain: a position and the
// message to show there.
type RenderedFrame struct {
	Pos     ast.Pos
	Message string
}

// Render turns a reason stack (innermost first) into the lines a reporter
// should emit (§4.2). A single-entry stack renders as just its leaf
// message. A multi-entry stack gets a summary line at the outermost frame's
// position (the last entry) followed by one line per frame, each prefixed
// with its own polarity sign.
func Render(stack []Reason) []RenderedFrame {
	if len(stack) == 0 {
		return nil
	}
	if len(stack) == 1 {
		return []RenderedFrame{{Pos: stack[0].Pos, Message: stack[0].Descr.Message(stack[0].Outer)}}
	}

	head := stack[0]
	outer := stack[len(stack)-1]
	signs := make([]string, len(stack))
	for i, r := range stack {
		signs[i] = signPrefix(r.Tag)
	}
	summary := fmt.Sprintf("this position is %s because it is the composition of %s",
		polarityWord(head.Tag), strings.Join(signs, ""))

	frames := make([]RenderedFrame, 0, len(stack)+1)
	frames = append(frames, RenderedFrame{Pos: outer.Pos, Message: summary})
	for _, r := range stack {
		frames = append(frames, RenderedFrame{Pos: r.Pos, Message: r.Message()})
	}
	return frames
}

func polarityWord(t Tag) string {
	switch t {
	case Cov:
		return "covariant"
	case Contra:
		return "contravariant"
	case Inv:
		return "invariant"
	default:
		return "bivariant"
	}
}
