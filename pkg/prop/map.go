package prop

// Map is a flexible key-value metadata store for nodes and edges. It
// provides a fluent builder (With) and a mutating setter (Insert), plus
// type-safe getters that never coerce between kinds.
type Map struct {
	data map[string]Value
}

// New creates an empty property map.
func New() *Map {
	return &Map{data: make(map[string]Value)}
}

// With inserts key/value and returns the receiver, for fluent construction:
//
//	prop.New().With("name", prop.StringValue("f")).With("line", prop.IntValue(1))
func (m *Map) With(key string, value Value) *Map {
	m.Insert(key, value)
	return m
}

// Insert sets key to value, overwriting any existing entry.
func (m *Map) Insert(key string, value Value) {
	if m.data == nil {
		m.data = make(map[string]Value)
	}
	m.data[key] = value
}

// Get returns the raw value at key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Remove deletes key, returning the value that was there, if any.
func (m *Map) Remove(key string) (Value, bool) {
	v, ok := m.data[key]
	if ok {
		delete(m.data, key)
	}
	return v, ok
}

// Has reports whether key is present, regardless of its value.
func (m *Map) Has(key string) bool {
	_, ok := m.data[key]
	return ok
}

// Len returns the number of properties.
func (m *Map) Len() int { return len(m.data) }

// IsEmpty reports whether the map has no properties.
func (m *Map) IsEmpty() bool { return len(m.data) == 0 }

// Keys returns the property keys in no particular order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Each calls fn for every key/value pair. Iteration order is unspecified.
func (m *Map) Each(fn func(key string, value Value)) {
	for k, v := range m.data {
		fn(k, v)
	}
}

// GetString returns the value at key if it is a String, else ("", false).
// A value of a different kind under key is treated as absent, per §4.4's
// no-coercion rule.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.data[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (m *Map) GetInt(key string) (int64, bool) {
	v, ok := m.data[key]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (m *Map) GetFloat(key string) (float64, bool) {
	v, ok := m.data[key]
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (m *Map) GetBool(key string) (bool, bool) {
	v, ok := m.data[key]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

func (m *Map) GetStringList(key string) ([]string, bool) {
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return v.AsStringList()
}

func (m *Map) GetIntList(key string) ([]int64, bool) {
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return v.AsIntList()
}

// Clone returns a deep copy, so mutating one map never affects another —
// property values are owned wholly by their containing map (§3 Ownership).
func (m *Map) Clone() *Map {
	out := New()
	for k, v := range m.data {
		out.data[k] = v.clone()
	}
	return out
}

// Merge overwrites the receiver's entries with other's (§4.3
// UpdateNodeProperties: "merge, inserted keys overwrite").
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for k, v := range other.data {
		m.Insert(k, v)
	}
}

// MarshalJSON serialises the map as a plain JSON object of
// key -> tagged-value.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil || m.data == nil {
		return []byte("{}"), nil
	}
	return marshalMap(m.data)
}

// UnmarshalJSON restores a map serialised by MarshalJSON.
func (m *Map) UnmarshalJSON(data []byte) error {
	d, err := unmarshalMap(data)
	if err != nil {
		return err
	}
	m.data = d
	return nil
}
