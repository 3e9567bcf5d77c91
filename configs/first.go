package configs

import (
	"errors"
)

// First returns the highest priority value at path, or the zero value
// when no file sets it. Any other failure panics.
func First[T any](loader Loader, path string) T {
	var value T
	if err := loader.AssignFirst(path, &value); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return value
		}
		panic(err)
	}
	return value
}
