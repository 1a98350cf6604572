// Package render turns a descriptor's declarative lists into hardware,
// simulation, software and documentation files.
//
// Renderers are deterministic: identical input lists always produce
// byte-identical files. They never modify the lists they are given.
package render
