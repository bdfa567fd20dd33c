// Package parsing provides lint rules that surface parse results.
//
// Rules in this package:
//   - SS01: syntax errors, one per Error Node
//   - SD01: operators and declarations inside SuperJSON data files
package parsing
