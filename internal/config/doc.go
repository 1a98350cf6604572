// Package config defines the format-agnostic configuration model: the
// descriptor declarations read from manifests and the project settings, along
// with the Loader interface that format-specific packages implement.
//
// The registry and the app depend only on this package; the HCL parsing
// lives in internal/hcl.
package config
