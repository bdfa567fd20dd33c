// Package aliasing provides lint rules for aliasing conventions.
// These rules follow SQLFluff's AL (Aliasing) rule category.
//
// Rules in this package:
//   - AL03: Expression columns without an alias
//   - AL04: Table aliases used more than once in a SELECT
//   - AL05: Table aliases that are never referenced
//   - AL06: Alias length constraints (min_length, max_length)
//   - AL09: Aliases that repeat the aliased name
package aliasing
