package systemgen

import (
	"fmt"
	"strings"
)

// block accumulates lines in reading order so a whole section can be
// spliced at one anchor.
type block struct {
	lines []string
}

func (b *block) add(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *block) blank() {
	b.lines = append(b.lines, "")
}

// item appends one list element; every element but the last one carries a
// separating comma.
func (b *block) item(text string, last bool) {
	if !last {
		text += ","
	}
	b.lines = append(b.lines, text)
}

func (b *block) empty() bool { return len(b.lines) == 0 }

func (b *block) String() string {
	if b.empty() {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}
