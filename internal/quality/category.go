package quality

import "fmt"

// Category is one of the six issue buckets. The declaration order is also
// the tie-break order when picking the most common issue.
type Category int

const (
	NullValues Category = iota
	Duplicates
	EnumValues
	DatetimeErrors
	BigintErrors
	AmountErrors

	categoryCount
)

func Categories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

func (c Category) String() string {
	switch c {
	case NullValues:
		return "null_values"
	case Duplicates:
		return "duplicates"
	case EnumValues:
		return "enum_values"
	case DatetimeErrors:
		return "datetime_errors"
	case BigintErrors:
		return "bigint_errors"
	case AmountErrors:
		return "amount_errors"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

func (c Category) MarshalText() ([]byte, error) {
	if c < 0 || c >= categoryCount {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// Describe returns the summary label for the category.
func (c Category) Describe() string {
	switch c {
	case NullValues:
		return "fields with null values"
	case Duplicates:
		return "tables with duplicate primary keys"
	case EnumValues:
		return "fields with enum values"
	case DatetimeErrors:
		return "fields with datetime errors"
	case BigintErrors:
		return "fields with bigint errors"
	case AmountErrors:
		return "fields with amount errors"
	default:
		return ""
	}
}
