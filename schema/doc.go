// Package schema converts structured input descriptions into runtime
// validators.
//
// A remote provider describes each operation's input with a JSON-Schema-like
// document. This package models that description as a closed tree of tagged
// nodes ([Document], [Kind]) and compiles it into a [Validator]: a pure
// function that checks a value, substitutes defaults for missing input, and
// returns the normalized result.
//
// # Totality
//
// Both parsing and conversion are total. ParseDocument never fails: it maps
// anything it does not recognize onto KindUnknown. Convert never fails: a
// malformed or unrecognized fragment degrades locally to a permissive
// validator (with an optional diagnostic) while its siblings convert
// normally. A single bad field in a provider schema must not make the rest
// of an operation uncallable.
//
// # Validation policy
//
//   - Enumerations win over the declared kind and reject values outside the
//     allowed set with an EnumMismatch.
//   - Integers reject non-integral numeric input.
//   - Objects require only the properties listed in Required; unknown extra
//     fields pass through unchanged (permissive superset policy, tolerating
//     provider schema drift).
//   - Arrays without an item schema accept any element.
//   - Defaults substitute for missing input before validation.
//
// # Usage
//
//	doc := schema.ParseDocument(rawInputSchema)
//	validate := schema.Convert(doc)
//	normalized, err := validate(args)
//	if err != nil {
//	    // err matches schema.ErrValidation
//	}
package schema
