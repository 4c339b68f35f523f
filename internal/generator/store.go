package generator

// Store holds capture group values for one generation. Slots are 1-based
// and written at most once: the first value stored for a slot is the one
// every later read observes.
type Store struct {
	values []string
	set    []bool
}

// NewStore creates an empty store for groupCount capture groups.
func NewStore(groupCount int) *Store {
	return &Store{
		values: make([]string, groupCount+1),
		set:    make([]bool, groupCount+1),
	}
}

// Len returns the number of capture slots.
func (s *Store) Len() int {
	return len(s.values) - 1
}

func (s *Store) valid(index int) bool {
	return index >= 1 && index < len(s.values)
}

// Get returns the value of slot index and whether it is set.
func (s *Store) Get(index int) (string, bool) {
	if !s.valid(index) || !s.set[index] {
		return "", false
	}
	return s.values[index], true
}

// IsSet reports whether slot index holds a value.
func (s *Store) IsSet(index int) bool {
	return s.valid(index) && s.set[index]
}

// SetIfAbsent stores value in slot index unless the slot is already set, and
// returns the slot's value afterwards. It panics on an index outside
// 1..Len().
func (s *Store) SetIfAbsent(index int, value string) string {
	if !s.valid(index) {
		panic("generator: group index out of range")
	}
	if s.set[index] {
		return s.values[index]
	}
	s.values[index] = value
	s.set[index] = true
	return value
}

// Snapshot copies the slot values and their set flags, indexed from 1.
func (s *Store) Snapshot() (values []string, set []bool) {
	return append([]string(nil), s.values...), append([]bool(nil), s.set...)
}
