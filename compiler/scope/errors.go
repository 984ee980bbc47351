package scope

import "fmt"

type (
	Kind string

	NameConflictError struct {
		Kind Kind
		Name string
	}

	UnresolvedTypeError struct {
		Name string
	}
)

const (
	KindFunc   Kind = "function"
	KindType   Kind = "type"
	KindImport Kind = "import"
	KindExport Kind = "export"
)

func (e *NameConflictError) Error() string {
	if e.Kind == KindFunc {
		return fmt.Sprintf("function %q with the same signature already declared", e.Name)
	}

	return fmt.Sprintf("%v %q already declared", e.Kind, e.Name)
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type %q", e.Name)
}
