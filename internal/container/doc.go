// Package container implements the value container used by the binary scene
// format: a growable byte buffer with a self-describing size header, filled
// by an enqueuer and drained by a dequeuer in the same order.
//
// # Layout
//
// Every container begins with an 8-byte little-endian header holding the
// total container size, header included. The remaining bytes are a sequence
// of values with no per-value framing:
//
//	[8B size][value][value]...
//
// # Encodings
//
//   - Unsigned variable length (VL) integers use base-128 with a
//     continuation bit (LEB128)
//   - Signed Int and Long values are zig-zag mapped and then VL encoded
//   - Bool and UChar values take one byte
//   - Float and Double values are raw little-endian IEEE 754
//   - Strings are a VL length followed by the bytes
//   - Scene object references are a VL class name length, a VL object name
//     length, then the two names back to back; an empty reference is 0,0
//
// # Usage
//
//	enq := container.NewEnq(256)
//	enq.EnqVLUint(1)
//	enq.EnqString("Widget")
//	data := enq.Finalize()
//
//	deq, err := container.NewDeq(data)
//	if err != nil {
//	    return err
//	}
//	n, err := deq.DeqVLUint()
//	name, err := deq.DeqString()
package container
