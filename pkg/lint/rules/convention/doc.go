// Package convention provides lint rules for SuperSQL conventions.
// These rules follow SQLFluff's CV (Convention) rule category.
//
// Rules in this package:
//   - CV01: One spelling of not equal (!= or <>)
//   - CV02: Use COALESCE instead of IFNULL or NVL
//   - CV04: Use COUNT(*) instead of COUNT(1)
//   - CV05: Use IS NULL instead of = NULL
//   - CV08: Use LEFT JOIN instead of RIGHT JOIN
//   - CV09: Block operators with side effects (LOAD, OUTPUT)
package convention
