// Package datatype provides lint rules for datatype declarations.
package datatype
