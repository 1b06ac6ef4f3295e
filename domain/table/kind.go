package table

// Kind is the inferred role of a column. It is fixed when the table is
// built; cells either match it or are null.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindDatetime    Kind = "datetime"
	KindBoolean     Kind = "boolean"
)

// Valid reports whether k is one of the four column kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindNumeric, KindCategorical, KindDatetime, KindBoolean:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
