package jack

import "fmt"

// Kind is the storage class of a named identifier.
type Kind int

const (
	NONE Kind = iota
	STATIC
	FIELD
	ARG
	VAR
)

func (k Kind) String() string {
	switch k {
	case STATIC:
		return "static"
	case FIELD:
		return "field"
	case ARG:
		return "arg"
	case VAR:
		return "var"
	default:
		return "none"
	}
}

// Segment returns the VM segment a kind is stored in. ARG->argument,
// VAR->local, FIELD->this, STATIC->static.
func (k Kind) Segment() (string, error) {
	switch k {
	case ARG:
		return "argument", nil
	case VAR:
		return "local", nil
	case FIELD:
		return "this", nil
	case STATIC:
		return "static", nil
	default:
		return "", fmt.Errorf("kind %s has no VM segment", k)
	}
}

// NamedIdentifier is an entry in a scope: a declared name, its Jack type,
// storage kind, and the index assigned at definition time.
type NamedIdentifier struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

// DuplicateDefinition is returned by Define when name already exists in the
// governing scope.
type DuplicateDefinition struct {
	Name string
}

func (e *DuplicateDefinition) Error() string {
	return fmt.Sprintf("%q is already defined in this scope", e.Name)
}

// NotDefined is returned by TypeOf/IndexOf when name is absent from both
// scopes.
type NotDefined struct {
	Name string
}

func (e *NotDefined) Error() string {
	return fmt.Sprintf("%q is not defined", e.Name)
}

// SymbolTable is the two-scope named-identifier registry: a class scope
// holding STATIC/FIELD entries that persists for one class compilation, and
// a subroutine scope holding ARG/VAR entries that is cleared at the start
// of every subroutine. Four independent running indices, one per Kind,
// assign the index of each definition.
type SymbolTable struct {
	class      map[string]NamedIdentifier
	subroutine map[string]NamedIdentifier
	counts     [5]int // indexed by Kind
}

// NewSymbolTable returns an empty symbol table, class scope included. Call
// this once per compiled class.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		class:      make(map[string]NamedIdentifier),
		subroutine: make(map[string]NamedIdentifier),
	}
}

// StartSubroutine clears the subroutine scope and resets the ARG and VAR
// counters to zero. STATIC and FIELD counters are untouched.
func (s *SymbolTable) StartSubroutine() {
	s.subroutine = make(map[string]NamedIdentifier)
	s.counts[ARG] = 0
	s.counts[VAR] = 0
}

// Define allocates the next index for kind and inserts (name, typ, kind,
// index) into the scope kind governs (class scope for STATIC/FIELD,
// subroutine scope for ARG/VAR). Duplicate names within the same scope are
// rejected.
func (s *SymbolTable) Define(name, typ string, kind Kind) (NamedIdentifier, error) {
	scope := s.scopeFor(kind)
	if _, exists := scope[name]; exists {
		return NamedIdentifier{}, &DuplicateDefinition{Name: name}
	}
	id := NamedIdentifier{Name: name, Type: typ, Kind: kind, Index: s.counts[kind]}
	s.counts[kind]++
	scope[name] = id
	return id, nil
}

func (s *SymbolTable) scopeFor(kind Kind) map[string]NamedIdentifier {
	switch kind {
	case STATIC, FIELD:
		return s.class
	default:
		return s.subroutine
	}
}

// VarCount returns the number of definitions of kind in the scope kind
// governs.
func (s *SymbolTable) VarCount(kind Kind) int {
	return s.counts[kind]
}

// lookup resolves name against subroutine scope first, then class scope.
func (s *SymbolTable) lookup(name string) (NamedIdentifier, bool) {
	if id, ok := s.subroutine[name]; ok {
		return id, true
	}
	if id, ok := s.class[name]; ok {
		return id, true
	}
	return NamedIdentifier{}, false
}

// KindOf returns the kind of name, or NONE if it is not defined in any
// visible scope.
func (s *SymbolTable) KindOf(name string) Kind {
	if id, ok := s.lookup(name); ok {
		return id.Kind
	}
	return NONE
}

// TypeOf returns the declared type of name.
func (s *SymbolTable) TypeOf(name string) (string, error) {
	id, ok := s.lookup(name)
	if !ok {
		return "", &NotDefined{Name: name}
	}
	return id.Type, nil
}

// IndexOf returns the running index assigned to name at definition time.
func (s *SymbolTable) IndexOf(name string) (int, error) {
	id, ok := s.lookup(name)
	if !ok {
		return 0, &NotDefined{Name: name}
	}
	return id.Index, nil
}

// Lookup exposes the full NamedIdentifier for name, used by the compiler
// engine when it needs type, kind, and index together (e.g. resolving a
// method-call receiver).
func (s *SymbolTable) Lookup(name string) (NamedIdentifier, bool) {
	return s.lookup(name)
}
