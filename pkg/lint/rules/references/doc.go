// Package references provides lint rules for column references.
// These rules follow SQLFluff's RF (References) rule category.
//
// Rules in this package:
//   - RF02: Unqualified columns in multi-table queries
//   - RF03: Mixed qualified and unqualified columns
package references
