// Package section carves bounded blocks out of the game's brace-nested text.
//
// Scanning is flat: a block starts at the first line matching an open
// matcher and runs until a line that equals the close line exactly. Nested
// braces in between are ordinary body lines.
package section

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// CloseLine ends a depth-1 block in assets and saves
const CloseLine = "\t}\n"

// Line is one line of text including its terminator
type Line struct {
	Text   string
	Offset int
}

// End is the offset just past the line
func (l Line) End() int {
	return l.Offset + len(l.Text)
}

// Reader indexes the lines of a text
type Reader struct {
	text  string
	lines []Line
}

// NewReader splits text into lines, keeping each "\n"
func NewReader(text string) *Reader {
	r := &Reader{text: text}
	offset := 0
	for offset < len(text) {
		next := strings.IndexByte(text[offset:], '\n')
		end := len(text)
		if next >= 0 {
			end = offset + next + 1
		}
		r.lines = append(r.lines, Line{Text: text[offset:end], Offset: offset})
		offset = end
	}
	return r
}

// Text returns the indexed text
func (r *Reader) Text() string {
	return r.text
}

// Lines returns every line
func (r *Reader) Lines() []Line {
	return r.lines
}

// Find returns the index of the first line at or after from that matches
func (r *Reader) Find(m Matcher, from int) (int, bool) {
	for i := from; i < len(r.lines); i++ {
		if m(r.lines[i].Text) {
			return i, true
		}
	}
	return -1, false
}

// Block returns the first block opened by a line matching open
func (r *Reader) Block(open Matcher, closeLine string) (Block, bool) {
	i, ok := r.Find(open, 0)
	if !ok {
		return Block{}, false
	}
	return r.BlockAt(i, closeLine), true
}

// Blocks returns every non-overlapping block opened by open
func (r *Reader) Blocks(open Matcher, closeLine string) []Block {
	var blocks []Block
	for i := 0; i < len(r.lines); {
		start, ok := r.Find(open, i)
		if !ok {
			break
		}
		b := r.BlockAt(start, closeLine)
		blocks = append(blocks, b)
		i = start + 1 + len(b.Body)
		if b.Closed {
			i++
		}
	}
	return blocks
}

// BlockAt builds the block whose header is line i
func (r *Reader) BlockAt(i int, closeLine string) Block {
	b := Block{Header: r.lines[i]}
	for j := i + 1; j < len(r.lines); j++ {
		if r.lines[j].Text == closeLine {
			b.Close = r.lines[j]
			b.Closed = true
			return b
		}
		b.Body = append(b.Body, r.lines[j])
	}
	return b
}

// Run returns the consecutive lines after line i that satisfy keep
func (r *Reader) Run(i int, keep Matcher) []Line {
	var out []Line
	for j := i + 1; j < len(r.lines); j++ {
		if !keep(r.lines[j].Text) {
			break
		}
		out = append(out, r.lines[j])
	}
	return out
}

// Block is a header line, its body and an optional close line
type Block struct {
	Header Line
	Body   []Line
	Close  Line
	Closed bool
}

// Span returns the byte range from the header through the close line. An
// unclosed block ends after its last body line.
func (b Block) Span() (start, end int) {
	start = b.Header.Offset
	end = b.Header.End()
	if len(b.Body) > 0 {
		end = b.Body[len(b.Body)-1].End()
	}
	if b.Closed {
		end = b.Close.End()
	}
	return start, end
}

// Filter returns body lines for which keep is true
func (b Block) Filter(keep Matcher) []string {
	var out []string
	for _, l := range b.Body {
		if keep(l.Text) {
			out = append(out, l.Text)
		}
	}
	return out
}

// BodyText joins the body lines
func (b Block) BodyText() string {
	var sb strings.Builder
	for _, l := range b.Body {
		sb.WriteString(l.Text)
	}
	return sb.String()
}

// NormalizeNewlines converts CRLF to LF and reports whether any was found
func NormalizeNewlines(text string) (string, bool) {
	if !strings.Contains(text, "\r\n") {
		return text, false
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), true
}

// RestoreNewlines gives edited, the normalized form of raw after edits, the
// line endings of raw. A uniformly CRLF raw turns every "\n" back into
// "\r\n". When raw mixes both, lines are aligned against raw so untouched
// lines keep their own terminator and changed lines take the terminator of
// the line they replace.
func RestoreNewlines(edited, raw string) string {
	crlfs := strings.Count(raw, "\r\n")
	switch {
	case crlfs == 0:
		return edited
	case crlfs == strings.Count(raw, "\n"):
		return strings.ReplaceAll(edited, "\n", "\r\n")
	}

	rawLines := strings.SplitAfter(raw, "\n")
	before := make([]string, len(rawLines))
	crlf := make([]bool, len(rawLines))
	for i, l := range rawLines {
		if strings.HasSuffix(l, "\r\n") {
			before[i] = l[:len(l)-2] + "\n"
			crlf[i] = true
			continue
		}
		before[i] = l
	}
	after := strings.SplitAfter(edited, "\n")

	// unchanged head and tail lines are copied straight through
	head := 0
	for head < len(before) && head < len(after) && before[head] == after[head] {
		head++
	}
	tail := 0
	for tail < len(before)-head && tail < len(after)-head &&
		before[len(before)-1-tail] == after[len(after)-1-tail] {
		tail++
	}

	var sb strings.Builder
	sb.Grow(len(edited) + crlfs)
	for i := 0; i < head; i++ {
		writeLine(&sb, after[i], crlf[i])
	}
	m := difflib.NewMatcherWithJunk(before[head:len(before)-tail], after[head:len(after)-tail], false, nil)
	for _, op := range m.GetOpCodes() {
		for j := op.J1; j < op.J2; j++ {
			i := head + op.I1 + j - op.J1
			var useCRLF bool
			switch {
			case op.Tag == 'e', op.Tag == 'r' && i < head+op.I2:
				useCRLF = crlf[i]
			case head+op.I1 > 0:
				useCRLF = crlf[head+op.I1-1]
			}
			writeLine(&sb, after[head+j], useCRLF)
		}
	}
	for k := tail; k > 0; k-- {
		writeLine(&sb, after[len(after)-k], crlf[len(before)-k])
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, line string, crlf bool) {
	if crlf && strings.HasSuffix(line, "\n") {
		sb.WriteString(line[:len(line)-1])
		sb.WriteString("\r\n")
		return
	}
	sb.WriteString(line)
}
