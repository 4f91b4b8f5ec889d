package store

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// KeyExists returns the condition that the item addressed by an update
// already exists.
func KeyExists(keyAttribute string) expression.ConditionBuilder {
	return expression.AttributeExists(expression.Name(keyAttribute))
}

// projection returns the projection builder for the given attribute names.
// The second result is false when names is empty.
func projection(names []string) (expression.ProjectionBuilder, bool) {
	if len(names) == 0 {
		return expression.ProjectionBuilder{}, false
	}
	rest := make([]expression.NameBuilder, 0, len(names)-1)
	for _, n := range names[1:] {
		rest = append(rest, expression.Name(n))
	}
	return expression.NamesList(expression.Name(names[0]), rest...), true
}
