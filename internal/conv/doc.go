// Package conv provides checked integer conversions for fixed-width on-disk
// fields.
package conv
