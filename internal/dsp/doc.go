// Package dsp implements the style effect engine: a single lo-fi
// processing chain (naive time stretch, bit-depth reduction, additive
// crackle) parameterized per producer style.
package dsp
