package rules

// Import all rule subpackages to register them with the global registry.
import (
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/aliasing"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/ambiguous"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/convention"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/parsing"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/references"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules/structure"
)
