// Package casesplit provides lint rules for case splits.
package casesplit
