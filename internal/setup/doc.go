// Package setup implements the dependency setup engine.
//
// An Engine owns the build state of every descriptor type for one run. Setting
// up a descriptor for a purpose initializes its attributes on first use,
// recursively sets up its dependencies, copies the sources of its contributor
// chain into the build directory and generates its derived files. Each
// (descriptor, purpose) pair is set up at most once, and a descriptor set up
// for hardware is never set up again.
package setup
