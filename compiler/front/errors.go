package front

import (
	"fmt"
	"strings"
)

type (
	ModuleNotFoundError struct {
		Name  string
		Tried []string
	}

	ModuleReadError struct {
		Path string
		Err  error
	}
)

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %v not found, tried: %v", e.Name, strings.Join(e.Tried, ", "))
}

func (e *ModuleReadError) Error() string {
	return fmt.Sprintf("read module %v: %v", e.Path, e.Err)
}

func (e *ModuleReadError) Unwrap() error { return e.Err }
