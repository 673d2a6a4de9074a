// Package schema validates raw definition documents against the schema
// root and turns them into order-preserving documents for the compiler.
//
// A Registry is built once per invocation from the schema directory and is
// read-only afterwards. It holds one Validator per definition category
// ("module" and "interface"). Validation uses JSON Schema; the validated
// document is then loaded into a CUE value, which keeps object fields in
// the order they were written. Schema defaults are filled into absent
// fields after validation.
//
// YAML definitions and YAML schema documents are accepted and converted to
// JSON before anything else looks at them.
package schema
