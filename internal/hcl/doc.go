// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for finding and parsing manifest and project
// files and translating them into descriptor declarations.
package hcl
