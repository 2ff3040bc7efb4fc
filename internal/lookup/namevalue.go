package lookup

// Entry is one name with its raw cell value
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NameValueMap associates each name with exactly one value. Iteration follows
// the order in which names were first seen.
type NameValueMap struct {
	order  []string
	values map[string]string
}

// NewNameValueMap returns an empty mapping
func NewNameValueMap() *NameValueMap {
	return &NameValueMap{values: make(map[string]string)}
}

// BuildNameValueMap pairs names and values by position, up to the shorter of
// the two. Empty names are skipped and a repeated name keeps its last value.
func BuildNameValueMap(names, values []string) *NameValueMap {
	m := NewNameValueMap()
	n := min(len(names), len(values))
	for i := 0; i < n; i++ {
		if names[i] == "" {
			continue
		}
		m.Set(names[i], values[i])
	}
	return m
}

// Set stores value under name, overwriting any earlier value
func (m *NameValueMap) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = value
}

// Get returns the value stored for name
func (m *NameValueMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Len returns the number of names
func (m *NameValueMap) Len() int {
	return len(m.order)
}

// Names returns the names in first-seen order
func (m *NameValueMap) Names() []string {
	return append([]string{}, m.order...)
}

// Entries returns name/value pairs in first-seen order
func (m *NameValueMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, Entry{Name: name, Value: m.values[name]})
	}
	return out
}

// Map returns a plain copy of the mapping
func (m *NameValueMap) Map() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
