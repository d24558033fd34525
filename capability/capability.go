package capability

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonwraymond/toolbridge/schema"
)

// ErrUnknownEnvironment is returned when parsing an unrecognized environment name.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is a logical isolation boundary. Each environment has its own
// descriptor cache, operation cache, and tracker session.
type Environment int

const (
	// Sandbox is the development/testing environment.
	Sandbox Environment = iota
	// Production is the live environment.
	Production
	// External is a third-party provider environment.
	External
)

// String makes Environment satisfy the fmt.Stringer interface.
func (e Environment) String() string {
	switch e {
	case Sandbox:
		return "sandbox"
	case Production:
		return "production"
	case External:
		return "external"
	default:
		return "unknown"
	}
}

// ParseEnvironment converts an environment name to an Environment.
// Matching is case-insensitive. Returns ErrUnknownEnvironment for
// unrecognized names.
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sandbox":
		return Sandbox, nil
	case "production":
		return Production, nil
	case "external":
		return External, nil
	default:
		return Sandbox, fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
}

// Descriptor is the discovered metadata record for one remote capability.
// Descriptors are immutable values: re-discovery supersedes the whole set
// for an environment, never merges into it.
type Descriptor struct {
	// Name is the operation name, unique per environment.
	Name string

	// Description is the provider-supplied description, if any.
	Description string

	// Category is derived from the operation name's leading segment.
	Category string

	// InputShape is the parsed input schema, or nil when the provider
	// did not describe one.
	InputShape *schema.Document

	// Environment is the environment this descriptor was discovered in.
	Environment Environment
}

// categorySeparators are the characters that end a name's leading segment.
const categorySeparators = "_-.:/"

var lowerCaser = cases.Lower(language.Und)

// DeriveCategory extracts a category tag from an operation name: the leading
// segment up to the first separator, lower-cased. Names with no leading
// segment yield "unknown".
func DeriveCategory(name string) string {
	segment := name
	if i := strings.IndexAny(name, categorySeparators); i >= 0 {
		segment = name[:i]
	}
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "unknown"
	}
	return lowerCaser.String(segment)
}
