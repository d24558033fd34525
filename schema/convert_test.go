package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// captureLogger collects diagnostics for assertions.
type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *captureLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func TestConvert_NilDocument(t *testing.T) {
	validate := Convert(nil)
	got, err := validate(map[string]any{"anything": true})
	if err != nil {
		t.Fatalf("permissive validator error = %v", err)
	}
	want := map[string]any{"anything": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConvert_Primitives(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		value   any
		wantErr bool
	}{
		{"string ok", KindString, "hello", false},
		{"string wrong type", KindString, 42, true},
		{"boolean ok", KindBoolean, true, false},
		{"boolean wrong type", KindBoolean, "true", true},
		{"number float", KindNumber, 3.14, false},
		{"number int", KindNumber, 7, false},
		{"number wrong type", KindNumber, "7", true},
		{"integer int", KindInteger, 10, false},
		{"integer integral float", KindInteger, float64(10), false},
		{"integer non-integral float", KindInteger, 10.5, true},
		{"integer wrong type", KindInteger, "10", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate := Convert(&Document{Kind: tt.kind})
			got, err := validate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("validate(%v) = %v, want error", tt.value, got)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v does not match ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate(%v) error = %v", tt.value, err)
			}
			if got != tt.value {
				t.Errorf("validate(%v) = %v, want unchanged", tt.value, got)
			}
		})
	}
}

func TestConvert_PrimitiveDefault(t *testing.T) {
	validate := Convert(&Document{Kind: KindInteger, Default: float64(10)})
	got, err := validate(nil)
	if err != nil {
		t.Fatalf("validate(nil) error = %v", err)
	}
	if got != float64(10) {
		t.Errorf("validate(nil) = %v, want 10", got)
	}
}

func TestConvert_Enum(t *testing.T) {
	doc := &Document{Kind: KindEnum, Enum: []any{"asc", "desc"}}
	validate := Convert(doc)

	if got, err := validate("asc"); err != nil || got != "asc" {
		t.Errorf("validate(asc) = %v, %v, want asc, nil", got, err)
	}

	_, err := validate("sideways")
	if err == nil {
		t.Fatal("validate(sideways) should fail")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not *ValidationError", err)
	}
	if verr.Kind != EnumMismatch {
		t.Errorf("Kind = %v, want EnumMismatch", verr.Kind)
	}
}

func TestConvert_EnumDefault(t *testing.T) {
	doc := &Document{Kind: KindEnum, Enum: []any{"asc", "desc"}, Default: "asc"}
	validate := Convert(doc)
	got, err := validate(nil)
	if err != nil {
		t.Fatalf("validate(nil) error = %v", err)
	}
	if got != "asc" {
		t.Errorf("validate(nil) = %v, want default asc", got)
	}
}

func TestConvert_EnumPrecedenceOverKind(t *testing.T) {
	// A declared kind with an allowed-value set validates as enumeration.
	doc := &Document{Kind: KindString, Enum: []any{"a", "b"}}
	validate := Convert(doc)
	if _, err := validate("c"); err == nil {
		t.Error("validate(c) should fail enum check despite string kind")
	}
}

func TestConvert_EnumNumericEquality(t *testing.T) {
	doc := &Document{Kind: KindEnum, Enum: []any{float64(1), float64(2)}}
	validate := Convert(doc)
	if _, err := validate(1); err != nil {
		t.Errorf("validate(int 1) error = %v, want match with float64(1)", err)
	}
}

func TestConvert_ObjectRequired(t *testing.T) {
	doc := &Document{
		Kind: KindObject,
		Properties: map[string]*Document{
			"id":   {Kind: KindString},
			"note": {Kind: KindString},
		},
		Required: []string{"id"},
	}
	validate := Convert(doc)

	// Missing optional property passes.
	if _, err := validate(map[string]any{"id": "x"}); err != nil {
		t.Errorf("missing optional property should pass, got %v", err)
	}

	// Missing required property fails.
	_, err := validate(map[string]any{"note": "y"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != MissingRequired {
		t.Errorf("missing required property error = %v, want MissingRequired", err)
	}
}

func TestConvert_ObjectExtrasPassThrough(t *testing.T) {
	doc := &Document{
		Kind:       KindObject,
		Properties: map[string]*Document{"id": {Kind: KindString}},
	}
	validate := Convert(doc)
	got, err := validate(map[string]any{"id": "x", "drifted": 99})
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T, want map", got)
	}
	if m["drifted"] != 99 {
		t.Errorf("extra field = %v, want passed through unchanged", m["drifted"])
	}
}

func TestConvert_ObjectPropertyDefault(t *testing.T) {
	doc := &Document{
		Kind: KindObject,
		Properties: map[string]*Document{
			"perPage": {Kind: KindInteger, Default: float64(10)},
		},
	}
	validate := Convert(doc)
	got, err := validate(map[string]any{})
	if err != nil {
		t.Fatalf("validate({}) error = %v", err)
	}
	m := got.(map[string]any)
	if m["perPage"] != float64(10) {
		t.Errorf("perPage = %v, want default 10", m["perPage"])
	}
}

func TestConvert_ObjectNilInput(t *testing.T) {
	doc := &Document{
		Kind: KindObject,
		Properties: map[string]*Document{
			"perPage": {Kind: KindInteger, Default: float64(10)},
		},
	}
	validate := Convert(doc)
	got, err := validate(nil)
	if err != nil {
		t.Fatalf("validate(nil) error = %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["perPage"] != float64(10) {
		t.Errorf("validate(nil) = %v, want map with default", got)
	}
}

func TestConvert_NestedObjectError(t *testing.T) {
	doc := &Document{
		Kind: KindObject,
		Properties: map[string]*Document{
			"filter": {
				Kind:       KindObject,
				Properties: map[string]*Document{"limit": {Kind: KindInteger}},
			},
		},
	}
	validate := Convert(doc)
	_, err := validate(map[string]any{"filter": map[string]any{"limit": "ten"}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if verr.Path != "filter.limit" {
		t.Errorf("Path = %q, want filter.limit", verr.Path)
	}
}

func TestConvert_Array(t *testing.T) {
	doc := &Document{Kind: KindArray, Items: &Document{Kind: KindString}}
	validate := Convert(doc)

	got, err := validate([]any{"a", "b"})
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{"a", "b"}) {
		t.Errorf("got %v", got)
	}

	if _, err := validate([]any{"a", 1}); err == nil {
		t.Error("mixed array should fail item validation")
	}
	if _, err := validate("not an array"); err == nil {
		t.Error("non-array input should fail")
	}
}

func TestConvert_ArrayOfAny(t *testing.T) {
	validate := Convert(&Document{Kind: KindArray})
	got, err := validate([]any{"a", 1, true})
	if err != nil {
		t.Fatalf("array-of-any error = %v", err)
	}
	if len(got.([]any)) != 3 {
		t.Errorf("got %v, want 3 elements", got)
	}
}

func TestConvert_UnknownKindDiagnostic(t *testing.T) {
	logger := &captureLogger{}
	validate := Convert(&Document{Kind: KindUnknown}, WithLogger(logger))
	got, err := validate(42)
	if err != nil || got != 42 {
		t.Errorf("unknown kind should accept anything, got %v, %v", got, err)
	}
	if len(logger.messages) == 0 {
		t.Error("unknown kind should emit a diagnostic")
	}
}

func TestConvert_TotalOverSiblings(t *testing.T) {
	// One degenerate property must not poison the others.
	doc := &Document{
		Kind: KindObject,
		Properties: map[string]*Document{
			"good": {Kind: KindString},
			"bad":  {Kind: Kind(99)},
		},
	}
	validate := Convert(doc)
	if _, err := validate(map[string]any{"good": "x", "bad": struct{}{}}); err != nil {
		t.Errorf("degenerate sibling should validate permissively, got %v", err)
	}
	if _, err := validate(map[string]any{"good": 1}); err == nil {
		t.Error("good sibling should still enforce its type")
	}
}

func TestConvert_DeepNestingTerminates(t *testing.T) {
	doc := &Document{Kind: KindString}
	for i := 0; i < 500; i++ {
		doc = &Document{
			Kind:       KindObject,
			Properties: map[string]*Document{"next": doc},
		}
	}
	validate := Convert(doc)
	if validate == nil {
		t.Fatal("Convert returned nil validator")
	}
}
