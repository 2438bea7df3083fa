// Package dso loads scene class libraries from disk.
//
// A class library is a Go plugin named after the class it provides,
// "<ClassName>.so", or "<ClassName>.so.proxy" for proxy libraries that only
// describe the class. Every library exports three symbols:
//
//	Rdl2Declare  declares the attributes of the class
//	Rdl2Create   creates an instance
//	Rdl2Destroy  destroys an instance
//
// Proxy libraries only need Rdl2Declare.
//
// # Opening Libraries
//
// Open searches a colon separated path for the library file, opens it and
// resolves symbols lazily on first use:
//
//	d, err := dso.Open("Sphere", "/opt/rdl2dso:.", false)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	declare, err := d.Declare()
//
// The returned symbols are untyped. The scene layer asserts them to the
// function types it expects.
//
// # Validating Libraries
//
// IsValidDso performs a dry run: it derives the class name from the file
// name, opens the library, resolves the required symbols and closes it again.
// Any failure yields false.
//
// # Search Paths
//
// Finder builds the default search path: the current directory, the
// RDL2_DSO_PATH environment variable and a directory guessed from the
// location of the renderer executable. ParseDsoPath prepends a path given on
// the command line.
//
// # Testing
//
// The library loader is pluggable through WithOpener, so tests can provide
// in-memory libraries instead of compiled plugins.
package dso
