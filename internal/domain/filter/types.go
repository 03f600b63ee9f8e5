// Package filter defines the query filter model shared by list operations.
package filter

// ComparisonType defines supported comparison kinds.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"       // equals
	LessOrEqual    ComparisonType = "lte"      // inclusive upper bound
	GreaterOrEqual ComparisonType = "gte"      // inclusive lower bound
	Contains       ComparisonType = "contains" // substring match (ILIKE %val%)
)

// Item represents a single filter condition.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"` // comparison kind
	Value    any            `json:"value"`    // value (string or number)
}

// Eq builds an equality condition.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}

// Gte builds an inclusive lower-bound condition.
func Gte(field string, value any) Item {
	return Item{Field: field, Operator: GreaterOrEqual, Value: value}
}

// Lte builds an inclusive upper-bound condition.
func Lte(field string, value any) Item {
	return Item{Field: field, Operator: LessOrEqual, Value: value}
}

// ContainsFold builds a case-insensitive substring condition.
func ContainsFold(field string, value string) Item {
	return Item{Field: field, Operator: Contains, Value: value}
}
