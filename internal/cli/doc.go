// Package cli implements the wideid command line: encode host identifiers
// into a foreign array and a wire format, and decode raw foreign array files
// back into identifiers.
package cli
