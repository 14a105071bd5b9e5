// Package template renders simple fixes from placeholder strings.
//
// Apply substitutes {name} tokens from a parameter map in one left-to-right
// pass. Tokens without a value stay verbatim; Missing lists them so callers
// can log the gap.
//
// A FixTemplate bundles a template string with the categories and
// diagnostic codes it applies to, the fix type and base confidence of the
// proposal it renders, optional command templates, and an optional CEL
// condition evaluated against the parameters:
//
//	name: missing-file
//	description: Create a missing file
//	template: "Missing file at path '{path}'"
//	categories: [not_found]
//	fix_type: execute_command
//	confidence: 0.6
//	commands: ["touch {path}"]
//	when: "'path' in params"
//
// Registry indexes templates by category and code and keeps insertion order.
package template
