package schema

import (
	"fmt"
	"math"
	"reflect"
)

// Validator checks and normalizes a single value. It returns the
// normalized value (defaults substituted, nested values normalized) or a
// ValidationError. Validators are pure: they never mutate their input and
// are safe for concurrent use.
type Validator func(value any) (any, error)

// Logger is an optional interface for conversion diagnostics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...any)
}

// ConvertOption configures schema conversion.
type ConvertOption func(*converter)

// WithLogger sets a logger for conversion diagnostics, such as
// unrecognized node kinds degrading to permissive validation.
func WithLogger(l Logger) ConvertOption {
	return func(c *converter) {
		c.logger = l
	}
}

// Convert compiles a schema Document into a Validator.
//
// Conversion is total: it always terminates and always returns a usable
// Validator, whatever the document looks like. A nil document, an
// unrecognized kind, or a malformed fragment degrades locally to a
// permissive validator (with a diagnostic) rather than failing the whole
// conversion. A single bad field in a remote schema must not make the
// rest of the operation uncallable.
func Convert(doc *Document, opts ...ConvertOption) Validator {
	c := &converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c.convert(doc, "")
}

// Permissive returns a validator that accepts any value unchanged.
func Permissive() Validator {
	return func(value any) (any, error) {
		return value, nil
	}
}

type converter struct {
	logger Logger
}

func (c *converter) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Logf(format, args...)
	}
}

func (c *converter) convert(doc *Document, path string) Validator {
	if doc == nil {
		return Permissive()
	}

	// An allowed-value set wins over the declared kind.
	if len(doc.Enum) > 0 {
		return c.enum(doc, path)
	}

	switch doc.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return c.primitive(doc, path)
	case KindObject:
		return c.object(doc, path)
	case KindArray:
		return c.array(doc, path)
	case KindEnum:
		// KindEnum with no allowed values degrades to permissive.
		c.logf("schema: empty enumeration at %q, accepting any value", path)
		return Permissive()
	default:
		c.logf("schema: unrecognized kind at %q, accepting any value", path)
		return Permissive()
	}
}

func (c *converter) enum(doc *Document, path string) Validator {
	allowed := doc.Enum
	def := doc.Default
	return func(value any) (any, error) {
		if value == nil {
			if def != nil {
				return def, nil
			}
			return nil, &ValidationError{
				Kind:    EnumMismatch,
				Path:    path,
				Message: "missing value with no default",
			}
		}
		for _, candidate := range allowed {
			if equalValue(value, candidate) {
				return value, nil
			}
		}
		return nil, &ValidationError{
			Kind:    EnumMismatch,
			Path:    path,
			Message: fmt.Sprintf("value %v is not in the allowed set", value),
		}
	}
}

func (c *converter) primitive(doc *Document, path string) Validator {
	kind := doc.Kind
	def := doc.Default
	return func(value any) (any, error) {
		if value == nil {
			if def != nil {
				return def, nil
			}
			return nil, &ValidationError{
				Kind:    TypeMismatch,
				Path:    path,
				Message: fmt.Sprintf("expected %s, got nothing", kind),
			}
		}
		if checkPrimitive(kind, value) {
			return value, nil
		}
		return nil, &ValidationError{
			Kind:    TypeMismatch,
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %T", kind, value),
		}
	}
}

func (c *converter) object(doc *Document, path string) Validator {
	validators := make(map[string]Validator, len(doc.Properties))
	defaults := make(map[string]any, len(doc.Properties))
	for name, child := range doc.Properties {
		validators[name] = c.convert(child, joinPath(path, name))
		if child != nil && child.Default != nil {
			defaults[name] = child.Default
		}
	}
	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		required[name] = true
	}

	return func(value any) (any, error) {
		if value == nil {
			value = map[string]any{}
		}
		input, ok := value.(map[string]any)
		if !ok {
			return nil, &ValidationError{
				Kind:    TypeMismatch,
				Path:    path,
				Message: fmt.Sprintf("expected object, got %T", value),
			}
		}

		// Unknown extra fields pass through unchanged. Providers drift;
		// the superset policy keeps drifted calls working.
		out := make(map[string]any, len(input))
		for k, v := range input {
			out[k] = v
		}

		for name, validate := range validators {
			v, present := input[name]
			if !present {
				if def, ok := defaults[name]; ok {
					out[name] = def
					continue
				}
				if required[name] {
					return nil, &ValidationError{
						Kind:    MissingRequired,
						Path:    joinPath(path, name),
						Message: "required property is missing",
					}
				}
				continue
			}
			normalized, err := validate(v)
			if err != nil {
				return nil, err
			}
			out[name] = normalized
		}
		return out, nil
	}
}

func (c *converter) array(doc *Document, path string) Validator {
	item := c.convert(doc.Items, path+"[]")
	return func(value any) (any, error) {
		if value == nil {
			if doc.Default != nil {
				return doc.Default, nil
			}
			return nil, &ValidationError{
				Kind:    TypeMismatch,
				Path:    path,
				Message: "expected array, got nothing",
			}
		}
		input, ok := value.([]any)
		if !ok {
			return nil, &ValidationError{
				Kind:    TypeMismatch,
				Path:    path,
				Message: fmt.Sprintf("expected array, got %T", value),
			}
		}
		out := make([]any, len(input))
		for i, v := range input {
			normalized, err := item(v)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	}
}

// checkPrimitive reports whether value satisfies the primitive kind.
// Numbers arrive as float64 from JSON decoding but native int values from
// Go callers are accepted too.
func checkPrimitive(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindNumber:
		_, ok := asFloat(value)
		return ok
	case KindInteger:
		f, ok := asFloat(value)
		return ok && math.Trunc(f) == f && !math.IsInf(f, 0)
	default:
		return false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// equalValue compares an input against an allowed enum value, treating
// numeric values of different Go types as equal when they represent the
// same number.
func equalValue(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
