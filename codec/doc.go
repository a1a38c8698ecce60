// Package codec moves 64-bit identifiers between host form (types.WideInt,
// decimal strings, ordinary numbers) and fixed-width arrays in a foreign
// numeric runtime (ndarray.Runtime) without losing a bit.
//
// Outbound conversions pick a transfer strategy: short sequences travel as
// one comma-joined decimal string, long ones as a raw binary buffer written
// to a temporary file. Both produce identical int64 arrays. Inbound
// conversions accept int64 and uint64 arrays only, refuse uint64 arrays
// holding values above 2^63-1, and always go through the binary path.
//
//	c := codec.New(ndarray.Default())
//	arr, err := c.ToArray(ctx, ids, codec.Unset)
//	...
//	strs, err := c.ToStrings(ctx, arr)
package codec
