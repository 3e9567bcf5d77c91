package cmds

import (
	"fmt"
	"reflect"
)

// Command is a named action on the command line. Func receives its
// arguments from the words that follow the name; Subs become visible once
// the command has run.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

var errorType = reflect.TypeFor[error]()

// Func wraps fn, which must return nothing or an error.
func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	fnType := fnValue.Type()
	switch fnType.NumOut() {
	case 0:
	case 1:
		if fnType.Out(0) != errorType {
			panic(fmt.Errorf("must return error, got %v", fnType.Out(0)))
		}
	default:
		panic(fmt.Errorf("must return 0 or 1 value, got %d", fnType.NumOut()))
	}
	return &Command{
		Func: fnValue,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}

// ArgNames describes the arguments Func takes, for usage output.
// Optional arguments are bracketed.
func (c *Command) ArgNames() []string {
	if !c.Func.IsValid() {
		return nil
	}
	fnType := c.Func.Type()
	ret := make([]string, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		t := fnType.In(i)
		if t.Kind() == reflect.Pointer {
			ret = append(ret, "["+t.Elem().Kind().String()+"]")
			continue
		}
		ret = append(ret, "<"+t.Kind().String()+">")
	}
	return ret
}
