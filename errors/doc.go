// Package errors provides the structured error type used by the identifier
// codecs.
//
// Errors carry a Phase (where the failure happened) and a Kind (what went
// wrong). Kind is what callers match on:
//
//	_, err := c.Inbound(ctx, arr, codec.InboundOptions{})
//	if errors.Is(err, wideerrors.ErrOverflow) {
//		// an unsigned identifier did not fit into int64
//	}
//
// None of the kinds are retryable. A conversion either preserves every bit of
// every identifier or fails.
package errors
