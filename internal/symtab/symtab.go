// Package symtab provides the minimal, concrete module/scope/type system
// that the value and fold packages treat as an external collaborator
// (spec §6): just enough to resolve a Reference to an Assignment, look
// up a field or enum ordinal on a Type, and answer the handful of
// has_X/get_X queries the Folder calls during cycle detection and
// constant evaluation. It is deliberately not a general symbol table —
// full module/scope semantics are out of scope (spec §1).
package symtab

import (
	"github.com/google/uuid"

	"valuefold/internal/value"
)

// Module is a flat namespace of top-level definitions, identified by a
// stable id the way the teacher's compiler/module loader tags each
// loaded unit for diagnostics and caching.
type Module struct {
	ID          string
	Name        string
	assignments map[string]*Assignment
	types       map[string]*Type
}

func NewModule(name string) *Module {
	return &Module{
		ID:          uuid.NewString(),
		Name:        name,
		assignments: make(map[string]*Assignment),
		types:       make(map[string]*Type),
	}
}

func (m *Module) Declare(a *Assignment) {
	a.moduleID = m.ID
	m.assignments[a.fullName] = a
}

func (m *Module) DeclareType(name string, t *Type) {
	m.types[name] = t
}

func (m *Module) LookupType(name string) *Type { return m.types[name] }

// Scope implements value.ScopeRef. Scopes nest: a lookup that misses in
// the local assignment map falls through to the parent (spec §6:
// get_scope_mod ultimately bottoms out at the owning Module).
type Scope struct {
	module *Module
	parent *Scope
	local  map[string]*Assignment
}

func NewModuleScope(m *Module) *Scope {
	return &Scope{module: m, local: make(map[string]*Assignment)}
}

func (s *Scope) NewChild() *Scope {
	return &Scope{module: s.module, parent: s, local: make(map[string]*Assignment)}
}

func (s *Scope) Declare(a *Assignment) { s.local[a.fullName] = a }

func (s *Scope) ModuleName() string { return s.module.Name }

// HasAssignment implements value.ScopeRef's has_ass_withId: true if the
// name resolves somewhere in this scope chain or the owning module.
func (s *Scope) HasAssignment(name string) bool {
	_, ok := s.resolve(name)
	return ok
}

func (s *Scope) resolve(name string) (*Assignment, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if a, ok := sc.local[name]; ok {
			return a, true
		}
	}
	a, ok := s.module.assignments[name]
	return a, ok
}

// GetRefdAssignment is get_refd_assignment (spec §6): resolve a name to
// its Assignment through the scope chain, then the module. The name is
// matched against the full name each Assignment was declared with.
func (s *Scope) GetRefdAssignment(name string) (*Assignment, bool) {
	return s.resolve(name)
}

// Type is the minimal concrete value.Type implementation: enough field/
// ordinal/element/default information to drive operand-domain checks
// and get_refd_sub_value, nothing about constraints or subtyping.
type Type struct {
	kind     value.TypeKind
	fields   map[string]*Type
	order    []string // declaration order, for Seq's default-field walk
	defaults map[string]*value.Value
	ordinals map[string]int
	elem     *Type
	arrayDim int
}

func NewType(kind value.TypeKind) *Type {
	return &Type{kind: kind, fields: make(map[string]*Type), defaults: make(map[string]*value.Value), ordinals: make(map[string]int), arrayDim: -1}
}

func (t *Type) Kind() value.TypeKind { return t.kind }

func (t *Type) AddField(name string, ft *Type, def *value.Value) {
	t.fields[name] = ft
	t.order = append(t.order, name)
	if def != nil {
		t.defaults[name] = def
	}
}

func (t *Type) FieldType(name string) value.Type {
	ft, ok := t.fields[name]
	if !ok {
		return nil
	}
	return ft
}

func (t *Type) HasField(name string) bool {
	_, ok := t.fields[name]
	return ok
}

// FieldOrder returns field names in declaration order, the order
// Seq/Set default-filling walks them (spec §4.D get_refd_sub_value).
func (t *Type) FieldOrder() []string { return t.order }

func (t *Type) AddEnumLiteral(id string, ordinal int) { t.ordinals[id] = ordinal }

func (t *Type) Ordinal(enumID string) (int, bool) {
	o, ok := t.ordinals[enumID]
	return o, ok
}

func (t *Type) SetElemType(elem *Type) { t.elem = elem }

func (t *Type) ElemType() value.Type {
	if t.elem == nil {
		return nil
	}
	return t.elem
}

func (t *Type) SetArrayDim(n int) { t.arrayDim = n }
func (t *Type) ArrayDim() int     { return t.arrayDim }

func (t *Type) DefaultOf(name string) *value.Value { return t.defaults[name] }

// Assignment is the concrete value.Assignment: a declared name with its
// value.AssignKind, declared type and, for constants, the bound value.
type Assignment struct {
	fullName string
	kind     value.AssignKind
	declType *Type
	constVal *value.Value
	moduleID string // set by Module.Declare; disambiguates same-named assignments across modules
}

func NewAssignment(fullName string, kind value.AssignKind, declType *Type, constVal *value.Value) *Assignment {
	return &Assignment{fullName: fullName, kind: kind, declType: declType, constVal: constVal}
}

func (a *Assignment) FullName() string { return a.fullName }
func (a *Assignment) Kind() value.AssignKind { return a.kind }
func (a *Assignment) DeclaredType() value.Type {
	if a.declType == nil {
		return nil
	}
	return a.declType
}
func (a *Assignment) ConstValue() *value.Value { return a.constVal }

// ModuleID is the owning Module's id, assigned when Module.Declare adds
// this Assignment. Diagnostics use it to tell apart two modules that
// happen to declare a definition under the same full name (spec §6).
func (a *Assignment) ModuleID() string { return a.moduleID }
