// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the ordered, name-keyed collections that hold a
// descriptor's declarative lists, and the merge rule they all share.

package descriptor

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Keyed is implemented by every item that can live in a List.
type Keyed[T any] interface {
	Key() string
	// MergeFrom returns a copy of the receiver updated with the fields
	// present in other.
	MergeFrom(other T) T
}

// List is an ordered collection keyed by a unique name.
type List[T Keyed[T]] struct {
	items []T
}

// NewList returns a List holding items, merged in order.
func NewList[T Keyed[T]](items ...T) *List[T] {
	l := &List[T]{}
	l.Merge(items...)
	return l
}

// Merge updates the item sharing each new item's name, or appends the new
// item when no such name exists yet. Data is never dropped.
func (l *List[T]) Merge(items ...T) {
	for _, item := range items {
		if i := l.Index(item.Key()); i >= 0 {
			l.items[i] = l.items[i].MergeFrom(item)
			continue
		}
		// Merging an item into itself yields a private copy.
		l.items = append(l.items, item.MergeFrom(item))
	}
}

// Put replaces the item with the same name wholesale, or appends it.
func (l *List[T]) Put(item T) {
	if i := l.Index(item.Key()); i >= 0 {
		l.items[i] = item
		return
	}
	l.items = append(l.items, item)
}

// Index returns the position of the named item, or -1.
func (l *List[T]) Index(name string) int {
	for i, item := range l.items {
		if item.Key() == name {
			return i
		}
	}
	return -1
}

// Get returns the named item.
func (l *List[T]) Get(name string) (T, bool) {
	if i := l.Index(name); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Items returns a copy of the items in insertion order.
func (l *List[T]) Items() []T {
	if l == nil {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of distinct names in the list.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Attrs holds the fields of a declarative entry other than its name. Values
// keep the cty representation they were declared with.
type Attrs map[string]cty.Value

func (a Attrs) clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present and non-null.
func (a Attrs) Has(key string) bool {
	v, ok := a[key]
	return ok && !v.IsNull()
}

// String returns the field converted to a string, or "" when absent.
func (a Attrs) String(key string) string {
	if !a.Has(key) {
		return ""
	}
	v, err := convert.Convert(a[key], cty.String)
	if err != nil || !v.IsKnown() {
		return ""
	}
	return v.AsString()
}

// Int returns the field converted to an int.
func (a Attrs) Int(key string) (int, bool) {
	if !a.Has(key) {
		return 0, false
	}
	v, err := convert.Convert(a[key], cty.Number)
	if err != nil || !v.IsKnown() {
		return 0, false
	}
	var n int
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Bool returns the field converted to a bool, false when absent.
func (a Attrs) Bool(key string) bool {
	if !a.Has(key) {
		return false
	}
	v, err := convert.Convert(a[key], cty.Bool)
	if err != nil || !v.IsKnown() {
		return false
	}
	return v.True()
}

// Str, Num and Flag build cty values for Go-declared entries.
func Str(s string) cty.Value { return cty.StringVal(s) }
func Num(n int64) cty.Value  { return cty.NumberIntVal(n) }
func Flag(b bool) cty.Value  { return cty.BoolVal(b) }

// Entry is one item of a flat declarative list (a configuration macro, a
// register, a port, a block).
type Entry struct {
	Name  string
	Attrs Attrs
}

// NewEntry returns an Entry with a private copy of attrs.
func NewEntry(name string, attrs Attrs) Entry {
	return Entry{Name: name, Attrs: attrs.clone()}
}

// Key implements Keyed.
func (e Entry) Key() string { return e.Name }

// MergeFrom implements Keyed: fields in other win, the rest are kept.
func (e Entry) MergeFrom(other Entry) Entry {
	merged := e.Attrs.clone()
	for k, v := range other.Attrs {
		merged[k] = v
	}
	return Entry{Name: e.Name, Attrs: merged}
}

// Group is a named entry holding a nested list: a register group, an I/O
// group or a documentation block group. Items is treated as one field by the
// merge rule: a later group that carries items replaces them.
type Group struct {
	Name  string
	Attrs Attrs
	Items []Entry
}

// Key implements Keyed.
func (g Group) Key() string { return g.Name }

// MergeFrom implements Keyed.
func (g Group) MergeFrom(other Group) Group {
	merged := Group{Name: g.Name, Attrs: g.Attrs.clone(), Items: cloneEntries(g.Items)}
	for k, v := range other.Attrs {
		merged.Attrs[k] = v
	}
	if other.Items != nil {
		merged.Items = cloneEntries(other.Items)
	}
	return merged
}

// Item returns the named entry of the group.
func (g Group) Item(name string) (Entry, bool) {
	for _, e := range g.Items {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = NewEntry(e.Name, e.Attrs)
	}
	return out
}
