// Package core defines the shared language of the rwspec system.
//
// This package contains:
//   - Terms: Terminal (Id or Hole), Expression (Leaf, Op, Match)
//   - Annotations: Type, Placeholder, MultiAnnot
//   - Statements: RewriteDef, Function, Datatype, Goal, CaseSplit
//   - The hole/id role validator and the scope builders that feed it
//   - Canonical s-expression rendering and the terminal map/fold
//   - Lint severity and rule metadata shared by pkg/lint and the CLI
//
// Every value here is built once and never mutated afterwards. Transforms
// return new trees; nothing is shared between trees, so a term may be handed
// to another goroutine without copying.
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
