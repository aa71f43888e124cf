package ftparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatError renders err together with the source line it points at and a
// caret under the offending column:
//
//	line 2, col 9: unterminated string
//	2 | "name": "figtree
//	  |         ^
//
// The caret is padded by display width, so it lines up under wide runes
// such as CJK characters and emoji. Errors without a position are returned
// as plain messages.
func FormatError(src []byte, err error) string {
	if err == nil {
		return ""
	}
	pos, ok := ErrorPosition(err)
	if !ok || pos.Line < 1 {
		return err.Error()
	}

	line := sourceLine(src, pos.Line)

	var pad strings.Builder
	col := 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		col++
	}

	gutter := fmt.Sprintf("%d | ", pos.Line)
	margin := strings.Repeat(" ", len(gutter)-2) + "| "
	return fmt.Sprintf("%s\n%s%s\n%s%s^", err.Error(), gutter, line, margin, pad.String())
}

// sourceLine returns the 1-based line n of src without its line ending, or
// "" past the end of the input.
func sourceLine(src []byte, n int) string {
	for i := 1; i < n; i++ {
		idx := bytes.IndexByte(src, '\n')
		if idx < 0 {
			return ""
		}
		src = src[idx+1:]
	}
	if idx := bytes.IndexByte(src, '\n'); idx >= 0 {
		src = src[:idx]
	}
	return string(bytes.TrimSuffix(src, []byte("\r")))
}
