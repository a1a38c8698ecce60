// Package wire encodes identifier sequences for transport to and from the
// graph service. Every format carries the full 64 bits of each identifier;
// none of them passes an identifier through a float.
package wire
