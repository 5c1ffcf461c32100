package cache

// Kind separates key spaces.
type Kind uint8

const (
	KindUnknown           Kind = iota
	KindCategorySubstring      // substring search over category keys
	KindNameSubstring          // substring search over name keys
)

func (k Kind) String() string {
	switch k {
	case KindCategorySubstring:
		return "category_substring"
	case KindNameSubstring:
		return "name_substring"
	default:
		return "unknown"
	}
}

// Key identifies a cached result.
type Key struct {
	Kind Kind
	// Generation is the index generation the result was computed against.
	Generation uint64
	Query      string
}
