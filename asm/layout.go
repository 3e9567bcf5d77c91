package asm

import "fmt"

// Linkable is an instruction that may declare a label.
type Linkable interface {
	LabelDecl() (name string, ok bool)
	SourceLine() int
}

// Layout assigns each declared label the number of non-label instructions
// before it. Every label is known before any reference is rewritten, so
// forward references resolve like backward ones.
func Layout[I Linkable](insts []I) (map[string]int, error) {
	addrs := make(map[string]int)
	lines := make(map[string]int)
	addr := 0
	for _, inst := range insts {
		name, ok := inst.LabelDecl()
		if !ok {
			addr++
			continue
		}
		if line, ok := lines[name]; ok {
			return nil, &LineError{
				Line: inst.SourceLine(),
				Err:  fmt.Errorf("%w: %s (first declared at line %d)", ErrDuplicateLabel, name, line),
			}
		}
		addrs[name] = addr
		lines[name] = inst.SourceLine()
	}
	return addrs, nil
}
