package scope

type (
	// FuncTable holds overloads. Entries differ by name or parameter types.
	FuncTable struct {
		list []funcEntry
	}

	funcEntry struct {
		name string
		sig  []TypeID
		id   FuncID
	}

	TypeTable struct {
		names map[string]TypeID
		order []TypeID
	}

	Import struct {
		Name    string // as written, dotted
		Path    string // canonical file path
		Context ContextID
	}

	ImportTable struct {
		list []Import
	}

	ExportTable struct {
		names []string
	}

	UseTable struct {
		names []string
	}
)

// Add fails if a function with the same name and parameter types is there.
// Return type does not take part.
func (t *FuncTable) Add(name string, sig []TypeID, id FuncID) error {
	if _, ok := t.LookupSignature(name, sig); ok {
		return &NameConflictError{Kind: KindFunc, Name: name}
	}

	t.list = append(t.list, funcEntry{name: name, sig: sig, id: id})

	return nil
}

func (t *FuncTable) Lookup(name string) (r []FuncID) {
	for _, e := range t.list {
		if e.name == name {
			r = append(r, e.id)
		}
	}

	return r
}

func (t *FuncTable) LookupSignature(name string, sig []TypeID) (FuncID, bool) {
outer:
	for _, e := range t.list {
		if e.name != name || len(e.sig) != len(sig) {
			continue
		}

		for i := range sig {
			if e.sig[i] != sig[i] {
				continue outer
			}
		}

		return e.id, true
	}

	return NoFunc, false
}

func (t *FuncTable) All() []FuncID {
	r := make([]FuncID, len(t.list))

	for i, e := range t.list {
		r[i] = e.id
	}

	return r
}

func (t *FuncTable) Len() int { return len(t.list) }

func (t *TypeTable) Add(name string, id TypeID) error {
	if _, ok := t.names[name]; ok {
		return &NameConflictError{Kind: KindType, Name: name}
	}

	if t.names == nil {
		t.names = map[string]TypeID{}
	}

	t.names[name] = id
	t.order = append(t.order, id)

	return nil
}

func (t *TypeTable) Lookup(name string) (TypeID, bool) {
	id, ok := t.names[name]
	if !ok {
		return NoType, false
	}

	return id, true
}

// All returns types in declaration order.
func (t *TypeTable) All() []TypeID { return t.order }

func (t *ImportTable) Add(imp Import) error {
	if _, ok := t.Lookup(imp.Name); ok {
		return &NameConflictError{Kind: KindImport, Name: imp.Name}
	}

	t.list = append(t.list, imp)

	return nil
}

func (t *ImportTable) Lookup(name string) (Import, bool) {
	for _, imp := range t.list {
		if imp.Name == name {
			return imp, true
		}
	}

	return Import{}, false
}

func (t *ImportTable) All() []Import { return t.list }

func (t *ExportTable) Add(name string) error {
	if t.Has(name) {
		return &NameConflictError{Kind: KindExport, Name: name}
	}

	t.names = append(t.names, name)

	return nil
}

func (t *ExportTable) Has(name string) bool {
	for _, n := range t.names {
		if n == name {
			return true
		}
	}

	return false
}

func (t *ExportTable) All() []string { return t.names }

func (t *UseTable) Add(name string) {
	t.names = append(t.names, name)
}

func (t *UseTable) All() []string { return t.names }
