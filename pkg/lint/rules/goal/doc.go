// Package goal provides lint rules for proof goals.
package goal
