// Package wasmmem provides the "wasm" ndarray backend: every array lives in
// the linear memory of its own anonymous WebAssembly instance, run by
// wazero. Closing the array closes the instance.
//
// Importing the package registers the backend:
//
//	import _ "github.com/quickwritereader/wideid/ndarray/wasmmem"
package wasmmem
