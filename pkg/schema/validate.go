package schema

import "sort"

// Schema is a map of parameter names to their fields.
type Schema map[string]Field

// Validate checks that data conforms to the schema: required parameters are present,
// every present parameter is declared, and every value passes its type.
// Failures are reported in parameter-name order.
func Validate(s Schema, data map[string]any) error {
	var errs []error

	for _, name := range sortedKeys(s) {
		field := s[name]
		value, exists := data[name]
		if !exists {
			if field.Required {
				errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			}
			continue
		}
		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	for _, name := range sortedKeys(data) {
		if _, declared := s[name]; !declared {
			errs = append(errs, &ValidationError{Key: name, Reason: "unknown parameter", Value: data[name]})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
