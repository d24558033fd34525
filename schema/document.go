package schema

// Kind identifies the shape of a schema node. The set of kinds is closed:
// anything a provider sends that does not map onto one of these becomes
// KindUnknown rather than an untyped escape hatch.
type Kind int

const (
	// KindUnknown is the degenerate kind: values of any shape pass.
	KindUnknown Kind = iota
	// KindString accepts string values.
	KindString
	// KindInteger accepts integral numeric values.
	KindInteger
	// KindNumber accepts any numeric value.
	KindNumber
	// KindBoolean accepts boolean values.
	KindBoolean
	// KindObject accepts maps with per-property sub-schemas.
	KindObject
	// KindArray accepts slices with an optional item sub-schema.
	KindArray
	// KindEnum accepts one of a fixed set of values.
	KindEnum
)

// String makes Kind satisfy the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Document is one node of a structured schema tree.
//
// Invariants maintained by ParseDocument:
//   - every node has exactly one Kind
//   - Required is a subset of Properties keys
//   - a KindEnum node has at least one Enum entry; an empty enumeration
//     degrades to KindUnknown
type Document struct {
	// Kind is the node's shape tag.
	Kind Kind

	// Properties maps property names to sub-schemas. Object nodes only.
	Properties map[string]*Document

	// Required lists the property names that must be present. Object
	// nodes only; always a subset of Properties keys.
	Required []string

	// Items is the element sub-schema. Array nodes only; nil means
	// array-of-any.
	Items *Document

	// Enum is the ordered set of allowed values. Enum nodes only.
	Enum []any

	// Default replaces missing input before validation, when set.
	Default any

	// Description is the provider-supplied description, if any.
	Description string
}

// ParseDocument builds a Document tree from a raw JSON-Schema-like map.
// Parsing is total: it never fails. A nil or empty map yields a nil
// Document (no shape known), unrecognized type strings yield KindUnknown
// nodes, and structurally impossible fragments are dropped rather than
// rejected. Nesting beyond maxDepth is truncated to KindUnknown.
func ParseDocument(raw map[string]any) *Document {
	return parseDocument(raw, 0)
}

// maxDepth bounds schema recursion so a pathologically nested provider
// schema cannot exhaust the stack.
const maxDepth = 128

func parseDocument(raw map[string]any, depth int) *Document {
	if len(raw) == 0 {
		return nil
	}
	if depth >= maxDepth {
		return &Document{Kind: KindUnknown}
	}

	doc := &Document{}
	if s, ok := raw["description"].(string); ok {
		doc.Description = s
	}
	if v, ok := raw["default"]; ok {
		doc.Default = v
	}

	if enum, ok := raw["enum"].([]any); ok && len(enum) > 0 {
		doc.Enum = append([]any(nil), enum...)
	}

	typeName, _ := raw["type"].(string)
	doc.Kind = parseKind(typeName, raw, doc.Enum)

	switch doc.Kind {
	case KindObject:
		if props, ok := raw["properties"].(map[string]any); ok {
			doc.Properties = make(map[string]*Document, len(props))
			for name, sub := range props {
				subMap, _ := sub.(map[string]any)
				child := parseDocument(subMap, depth+1)
				if child == nil {
					child = &Document{Kind: KindUnknown}
				}
				doc.Properties[name] = child
			}
		}
		doc.Required = parseRequired(raw["required"], doc.Properties)
	case KindArray:
		if items, ok := raw["items"].(map[string]any); ok {
			doc.Items = parseDocument(items, depth+1)
		}
	}

	return doc
}

// parseKind maps a JSON Schema type string to a Kind. When the type is
// absent the shape is inferred from the surrounding keywords.
func parseKind(typeName string, raw map[string]any, enum []any) Kind {
	switch typeName {
	case "string":
		return KindString
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "object":
		return KindObject
	case "array":
		return KindArray
	case "":
		if len(enum) > 0 {
			return KindEnum
		}
		if _, ok := raw["properties"]; ok {
			return KindObject
		}
		if _, ok := raw["items"]; ok {
			return KindArray
		}
		return KindUnknown
	default:
		return KindUnknown
	}
}

// parseRequired filters a raw required list down to names that exist in
// properties, preserving order. Both []any (JSON decoding) and []string
// (direct construction) are accepted.
func parseRequired(raw any, properties map[string]*Document) []string {
	var names []string
	switch list := raw.(type) {
	case []any:
		for _, entry := range list {
			if name, ok := entry.(string); ok {
				names = append(names, name)
			}
		}
	case []string:
		names = list
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, exists := properties[name]; exists {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
