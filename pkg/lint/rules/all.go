package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules/casesplit"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules/datatype"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules/function"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules/goal"
	_ "github.com/leapstack-labs/rwspec/pkg/lint/rules/rewrite"
)
