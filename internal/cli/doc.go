// Package cli is responsible for parsing command-line arguments and flags into
// an application configuration, and for running the selected command.
package cli
