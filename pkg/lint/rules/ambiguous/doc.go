// Package ambiguous provides lint rules for detecting ambiguous constructs.
// These rules follow SQLFluff's AM (Ambiguous) rule category.
//
// Rules in this package:
//   - AM01: DISTINCT used with GROUP BY (redundant)
//   - AM02: UNION without ALL
//   - AM03: ORDER BY keys a set operation may not resolve
//   - AM04: Column count mismatch between set operation queries
//   - AM08: Join conditions that ignore the joined table
//   - AM09: ORDER BY/LIMIT scope in set operations
package ambiguous
