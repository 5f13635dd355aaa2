// Package rewrite provides lint rules for rewrite definitions.
//
// Rules in this package:
//   - RW01: Unbound hole (rewrite.unbound_hole)
//   - RW02: Duplicate rewrite name (rewrite.duplicate_name)
//   - RW03: Identity rewrite (rewrite.identity)
//   - RW04: Bare hole source (rewrite.bare_hole_source)
package rewrite
