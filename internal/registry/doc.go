// Package registry provides the central "glue" between declarations and
// behaviour.
//
// The Registry stores every known descriptor (declared in HCL manifests or by
// built-in Go modules) together with the Go behaviour hooks that customise
// how a descriptor is set up, and the per-flow hooks that run after its
// artifacts have been generated.
//
// During application startup the registry is populated from the built-in
// modules and the loaded manifests, then validated so that every hook, every
// dependency and every parent descriptor refers to something that exists.
package registry
