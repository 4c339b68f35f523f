package unmatcher

// Match is a generated string together with the values of its capture
// groups when generation finished.
type Match struct {
	text   string
	values []string
	set    []bool
	names  map[string]int
}

// String returns the generated text.
func (m *Match) String() string { return m.text }

// Group returns the value of capture group i and whether the group was set.
// Group 0 is the whole text.
func (m *Match) Group(i int) (string, bool) {
	if i == 0 {
		return m.text, true
	}
	if i < 0 || i >= len(m.values) || !m.set[i] {
		return "", false
	}
	return m.values[i], true
}

// NamedGroup returns the value of the group called name.
func (m *Match) NamedGroup(name string) (string, bool) {
	i, ok := m.names[name]
	if !ok {
		return "", false
	}
	return m.Group(i)
}

// Groups returns the whole text followed by every capture group's value.
// Groups that were never set are empty.
func (m *Match) Groups() []string {
	out := make([]string, len(m.values))
	out[0] = m.text
	for i := 1; i < len(m.values); i++ {
		out[i] = m.values[i]
	}
	return out
}
