package model

// TypeMap is a set of TypeDefs keyed by name which remembers insertion order.
type TypeMap struct {
	names []string
	defs  map[string]*TypeDef
}

// NewTypeMap returns an empty TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{defs: make(map[string]*TypeDef)}
}

// Add inserts def. It reports false, leaving the map unchanged,
// if a type with the same name already exists.
func (m *TypeMap) Add(def *TypeDef) bool {
	if _, exists := m.defs[def.Name]; exists {
		return false
	}
	m.names = append(m.names, def.Name)
	m.defs[def.Name] = def
	return true
}

// Get returns the type with the given name.
func (m *TypeMap) Get(name string) (*TypeDef, bool) {
	def, ok := m.defs[name]
	return def, ok
}

// Len returns the number of types.
func (m *TypeMap) Len() int { return len(m.names) }

// Names returns the type names in insertion order.
func (m *TypeMap) Names() []string {
	return append([]string(nil), m.names...)
}

// All returns the types in insertion order.
func (m *TypeMap) All() []*TypeDef {
	all := make([]*TypeDef, len(m.names))
	for i, name := range m.names {
		all[i] = m.defs[name]
	}
	return all
}

// EnumMap maps enum names to their values, remembering insertion order.
type EnumMap struct {
	names  []string
	values map[string][]string
}

// NewEnumMap returns an empty EnumMap.
func NewEnumMap() *EnumMap {
	return &EnumMap{values: make(map[string][]string)}
}

// Add inserts an enum. It reports false if the enum already exists.
func (m *EnumMap) Add(name string, values []string) bool {
	if _, exists := m.values[name]; exists {
		return false
	}
	m.names = append(m.names, name)
	m.values[name] = values
	return true
}

// Get returns the values of the named enum.
func (m *EnumMap) Get(name string) ([]string, bool) {
	vals, ok := m.values[name]
	return vals, ok
}

// Has reports whether an enum with the given name exists.
func (m *EnumMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Len returns the number of enums.
func (m *EnumMap) Len() int { return len(m.names) }

// Names returns the enum names in insertion order.
func (m *EnumMap) Names() []string {
	return append([]string(nil), m.names...)
}
