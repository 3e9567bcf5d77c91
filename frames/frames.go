// Package frames holds the call stack of return addresses used by both
// machines.
package frames

import (
	"fmt"
	"strings"
)

type Frame struct {
	ReturnPC int
}

// Stack is a call stack; the last element is the innermost call.
type Stack []Frame

func (s *Stack) Push(frame Frame) {
	*s = append(*s, frame)
}

func (s *Stack) Pop() (ret Frame, ok bool) {
	n := len(*s)
	if n == 0 {
		return
	}
	ret = (*s)[n-1]
	*s = (*s)[:n-1]
	return ret, true
}

// String renders pending return addresses, innermost first.
func (s Stack) String() string {
	if len(s) == 0 {
		return "(empty call stack)"
	}
	var b strings.Builder
	b.WriteString("call stack (top to bottom):\n")
	for i := range s {
		frame := s[len(s)-1-i]
		fmt.Fprintf(&b, "  %d: return to instruction %d\n", i, frame.ReturnPC)
	}
	return b.String()
}

// ReturnPCs lists return addresses, innermost first.
func (s Stack) ReturnPCs() []int {
	ret := make([]int, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		ret = append(ret, s[i].ReturnPC)
	}
	return ret
}
