// Package ndarray is the foreign numeric runtime the identifier codecs talk
// to: dtype-tagged fixed-width arrays that live in memory the runtime owns.
//
// The codecs only depend on the Runtime interface. Engine implements it on
// top of an Allocator, so the same array semantics run over Go heap memory
// (the "heap" backend, registered by this package) or over sandboxed
// WebAssembly linear memory (the "wasm" backend in ndarray/wasmmem).
//
// Backends are looked up by name, database/sql style:
//
//	import _ "github.com/quickwritereader/wideid/ndarray/wasmmem"
//
//	p := ndarray.NewProvider("wasm")
//	rt, err := p.Runtime(ctx) // initialised once, cached for the process
//
// Array memory is laid out little-endian, itemsize bytes per element.
package ndarray
