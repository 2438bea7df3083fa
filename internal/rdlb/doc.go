// Package rdlb reads and writes the binary scene format.
//
// # Frame
//
// A binary scene is two blocks preceded by their big-endian 8-byte lengths:
//
//	[manifest length][payload length][manifest][payload]
//
// The manifest is a container holding the number of records followed by the
// type and byte size of each record. The payload is the records back to
// back, one container per object, in context creation order.
//
// # Records
//
// An object record holds the class and object names, the attribute entries,
// an Unknown tag, the binding entries and a final false:
//
//	attribute: tag, transient, index | name, max timestep, (timestep, value)...
//	binding:   true, transient, index | name, class name, object name
//
// Transient records identify attributes by declaration index. They are
// smaller but only valid between builds with identical class declarations;
// the reader rejects indexes outside the class with a KeyError.
//
// # Writer Policies
//
// Writer policies are independent:
//
//	w := rdlb.NewWriter(ctx)
//	w.SetDeltaEncoding(true)   // dirty objects, set attributes only
//	w.SetSkipDefaults(true)    // skip default, unbound attributes
//	w.SetSplitMode(13)         // vectors of 13 elements or more only
//	err := w.ToFile("scene.rdlb")
//
// Split mode and SetMaxVectorSize partition a scene: the two outputs of
// SetMaxVectorSize(n) and SetSplitMode(n+1) together hold every attribute
// exactly once. Split-exempt classes such as sets and Metadata are kept
// whole on the small side.
//
// # Reading
//
// Reader applies records to a SceneContext, creating objects and referenced
// objects on demand. Missing class libraries, unknown attributes and type
// mismatches are logged as warnings and skipped, or returned prefixed with
// the object name when WithWarningsAsErrors is set. Corrupt data and unknown
// record types always fail.
package rdlb
