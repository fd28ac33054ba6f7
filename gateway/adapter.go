package gateway

import "fmt"

// Connection is the backend handle an adapter exposes. Its concrete type
// is opaque to the lifecycle core.
type Connection any

// Dataset is one named data collection supplied by an adapter.
type Dataset interface {
	// Name returns the dataset identifier within the adapter's schema.
	Name() string
}

// Adapter is the external collaborator contract for one storage backend.
// The core never performs I/O itself; anything blocking happens inside
// the adapter during Setup or Connection use.
type Adapter interface {
	// Connection returns the backend connection handle.
	Connection() Connection

	// Schema returns the dataset names this adapter supplies.
	Schema() []string

	// Dataset looks up a dataset by name.
	Dataset(name string) (Dataset, bool)
}

// ConfigSchema describes the settings an adapter accepts
type ConfigSchema struct {
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// PropertySchema describes a single settings property
type PropertySchema struct {
	Type        string   `json:"type"` // "string", "int", "bool", "float"
	Description string   `json:"description"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *int     `json:"minimum,omitempty"`
	Maximum     *int     `json:"maximum,omitempty"`
}

// ValidationError represents a single settings validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidateConfig validates gateway settings against an adapter schema.
// Unknown fields are allowed (lenient validation); missing required
// fields and type mismatches are reported.
func ValidateConfig(config map[string]any, schema ConfigSchema) []ValidationError {
	var errs []ValidationError

	for _, requiredField := range schema.Required {
		if _, exists := config[requiredField]; !exists {
			errs = append(errs, ValidationError{
				Field:   requiredField,
				Message: fmt.Sprintf("Field %q is required", requiredField),
				Code:    "required",
			})
		}
	}

	for fieldName, value := range config {
		propSchema, exists := schema.Properties[fieldName]
		if !exists {
			continue
		}

		if err := validateType(fieldName, value, propSchema); err != nil {
			errs = append(errs, *err)
			continue
		}

		if len(propSchema.Enum) > 0 {
			if err := validateEnum(fieldName, value, propSchema.Enum); err != nil {
				errs = append(errs, *err)
			}
		}

		if propSchema.Type == "int" || propSchema.Type == "float" {
			if propSchema.Minimum != nil {
				if err := validateMin(fieldName, value, *propSchema.Minimum); err != nil {
					errs = append(errs, *err)
				}
			}
			if propSchema.Maximum != nil {
				if err := validateMax(fieldName, value, *propSchema.Maximum); err != nil {
					errs = append(errs, *err)
				}
			}
		}
	}

	return errs
}

// validateType checks if the value matches the expected type
func validateType(fieldName string, value any, propSchema PropertySchema) *ValidationError {
	switch propSchema.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a string", fieldName),
				Code:    "type",
			}
		}
	case "int":
		if !isIntValue(value) {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be an integer", fieldName),
				Code:    "type",
			}
		}
	case "bool":
		if _, ok := value.(bool); !ok {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a boolean", fieldName),
				Code:    "type",
			}
		}
	case "float":
		if !isFloatValue(value) {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a number", fieldName),
				Code:    "type",
			}
		}
	}
	return nil
}

func validateEnum(fieldName string, value any, allowed []string) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return nil // Type validation already reported
	}
	for _, candidate := range allowed {
		if str == candidate {
			return nil
		}
	}
	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("Field %q must be one of %v", fieldName, allowed),
		Code:    "enum",
	}
}

func validateMin(fieldName string, value any, minimum int) *ValidationError {
	if n, ok := numericValue(value); ok && n < float64(minimum) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be >= %d", fieldName, minimum),
			Code:    "minimum",
		}
	}
	return nil
}

func validateMax(fieldName string, value any, maximum int) *ValidationError {
	if n, ok := numericValue(value); ok && n > float64(maximum) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be <= %d", fieldName, maximum),
			Code:    "maximum",
		}
	}
	return nil
}

func isIntValue(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return v == float64(int64(v))
	default:
		return false
	}
}

func isFloatValue(value any) bool {
	switch value.(type) {
	case float32, float64, int, int32, int64:
		return true
	default:
		return false
	}
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
