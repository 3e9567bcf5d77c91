package asm

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

const CommentDelimiter = ';'

// Line is a non-empty source line split into whitespace-separated fields,
// with any comment removed. No is 1-based.
type Line struct {
	No     int
	Fields []string
}

func Lines(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), 1<<20)
		no := 0
		for scanner.Scan() {
			no++
			text := scanner.Text()
			if i := strings.IndexByte(text, CommentDelimiter); i >= 0 {
				text = text[:i]
			}
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}
			if !yield(Line{No: no, Fields: fields}, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Line{No: no}, err)
		}
	}
}
