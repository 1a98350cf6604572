// Package buildfs materializes a descriptor's build directory: it creates the
// directory skeleton for the top descriptor, aggregates the source trees of
// every contributor with rename-on-copy, and removes sources duplicated
// across purpose directories.
//
// Operations are not transactional. A failure partway through leaves a
// partially populated directory; the build is expected to be re-run from
// scratch.
package buildfs
