package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// SetFields builds an update that sets each top-level field to its value.
// Fields are added in sorted order so the placeholders assigned by the
// expression builder are stable for a given input.
func SetFields(fields map[string]any) (expression.UpdateBuilder, error) {
	if len(fields) == 0 {
		return expression.UpdateBuilder{}, ErrEmptyUpdate
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if err := checkName(name); err != nil {
			return expression.UpdateBuilder{}, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for i, name := range names {
		// Field names are attribute names, not document paths.
		nameBuilder := expression.NameNoDotSplit(name)
		value := expression.Value(fields[name])
		if i == 0 {
			update = expression.Set(nameBuilder, value)
			continue
		}
		update = update.Set(nameBuilder, value)
	}
	return update, nil
}

// SetField builds an update that sets a single attribute.
func SetField(name string, value any) expression.UpdateBuilder {
	return expression.Set(expression.NameNoDotSplit(name), expression.Value(value))
}

// RemoveField builds an update that removes a single attribute.
func RemoveField(name string) expression.UpdateBuilder {
	return expression.Remove(expression.NameNoDotSplit(name))
}

// checkName rejects names the expression builder would not treat as a single
// top-level attribute. Brackets are read as list indexes even without dot
// splitting.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidField)
	}
	if strings.ContainsAny(name, "[]") {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}
