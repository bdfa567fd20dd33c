// Package structure provides lint rules for query structure.
// These rules follow SQLFluff's ST (Structure) rule category.
//
// Rules in this package:
//   - ST01: Redundant ELSE NULL in CASE expressions
//   - ST03: Unused CTE definition
//   - ST04: Nested CASE expressions (max_depth)
//   - ST06: Wildcards before named columns
//   - ST07: Joins that could use USING
//   - ST08: DISTINCT that reads as GROUP BY
//   - ST09: Join conditions out of join order
//   - ST10: Constant conditions in WHERE
package structure
