// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package descriptor provides the Go representation of a hardware-module
// descriptor: the static, type-level metadata declared in a manifest (or in Go
// by a built-in module) and the mutable per-type build state the setup engine
// populates while a build runs.
//
// # Core Concepts
//
//   - Descriptor: the static declaration of one reusable hardware-module kind.
//     It names its version, supported flows, source root, parent descriptor and
//     the declarative lists (confs, regs, ios, block groups) it contributes.
//
//   - State: the per-type build state. It holds the merged declarative lists,
//     the resolved dependency list, the instances created for this type and the
//     history of purposes it has been set up for. A State is created once per
//     type per process and mutated in place by the setup engine.
//
//   - List: an ordered collection keyed by a unique name. Merging an item whose
//     name is already present updates the existing item field by field; any
//     other item is appended. Insertion order is significant: it drives
//     register address assignment and the order of every generated file.
//
//   - Instance: a named, parameterized use of a descriptor inside another
//     module. Many instances may share one descriptor.
//
//   - Purpose: the closed set of build targets. Each purpose owns a canonical
//     directory under the build root, and `hardware` absorbs all the others.
package descriptor
