// Package except defines the error taxonomy shared by the scene description
// packages.
//
// # Kinds
//
// Every error produced by this module carries one of five kinds:
//
//   - IoError: a file or plugin library could not be found or opened
//   - RuntimeError: an operation was attempted in the wrong state, a plugin
//     symbol is missing, or a record is malformed
//   - TypeError: a value, flag or record type does not match what was declared
//   - KeyError: a named or indexed entry does not exist
//   - ValueError: a value was rejected, such as an unknown enum description
//
// # Matching
//
// Kinds are matched with errors.Is against the sentinel values:
//
//	if errors.Is(err, except.ErrKey) {
//	    // attribute not found
//	}
//
// Context can be layered on with Wrapf, which keeps the kind of the wrapped
// error and records the caller frame for %+v formatting:
//
//	return except.Wrapf(err, "%s", obj.Name())
package except
