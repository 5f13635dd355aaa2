// Package function provides lint rules for function signatures.
package function
