package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestList_MergeUpdatesExistingFieldsAndAppendsNewNames(t *testing.T) {
	// --- Arrange ---
	l := NewList(
		NewEntry("DATA_W", Attrs{"val": Str("32"), "descr": Str("data width")}),
		NewEntry("ADDR_W", Attrs{"val": Str("16")}),
	)

	// --- Act ---
	l.Merge(
		NewEntry("DATA_W", Attrs{"val": Str("64")}),
		NewEntry("USE_EXTMEM", Attrs{"val": Str("0")}),
	)

	// --- Assert ---
	require.Equal(t, 3, l.Len(), "merged length must equal the count of distinct names")

	names := []string{}
	for _, e := range l.Items() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"DATA_W", "ADDR_W", "USE_EXTMEM"}, names, "insertion order must be preserved")

	dataW, ok := l.Get("DATA_W")
	require.True(t, ok)
	assert.Equal(t, "64", dataW.Attrs.String("val"), "the later entry wins for keys it carries")
	assert.Equal(t, "data width", dataW.Attrs.String("descr"), "the earlier entry is kept for keys the later one lacks")
}

func TestList_MergeDoesNotAliasCallerMaps(t *testing.T) {
	attrs := Attrs{"val": Str("1")}
	l := NewList[Entry]()
	l.Merge(Entry{Name: "A", Attrs: attrs})

	attrs["val"] = Str("2")

	got, _ := l.Get("A")
	assert.Equal(t, "1", got.Attrs.String("val"))
}

func TestList_ItemsReturnsCopy(t *testing.T) {
	l := NewList(NewEntry("A", nil))
	items := l.Items()
	items[0].Name = "B"

	_, ok := l.Get("A")
	assert.True(t, ok)
}

func TestGroup_MergeReplacesItemsOnlyWhenPresent(t *testing.T) {
	l := NewList(Group{
		Name:  GeneralRegGroup,
		Attrs: Attrs{"descr": Str("General Registers.")},
		Items: []Entry{NewEntry("CTRL", Attrs{"n_bits": Num(8)})},
	})

	// A group update without items keeps the existing registers.
	l.Merge(Group{Name: GeneralRegGroup, Attrs: Attrs{"descr": Str("Renamed")}})
	g, _ := l.Get(GeneralRegGroup)
	require.Len(t, g.Items, 1)
	assert.Equal(t, "Renamed", g.Attrs.String("descr"))

	// A group update carrying items replaces them wholesale.
	l.Merge(Group{Name: GeneralRegGroup, Items: []Entry{NewEntry("STATUS", nil), NewEntry("DATA", nil)}})
	g, _ = l.Get(GeneralRegGroup)
	require.Len(t, g.Items, 2)
	assert.Equal(t, "STATUS", g.Items[0].Name)
	assert.Equal(t, "Renamed", g.Attrs.String("descr"))
}

func TestList_Put(t *testing.T) {
	l := NewList(NewEntry("A", Attrs{"x": Str("1"), "y": Str("2")}))
	l.Put(NewEntry("A", Attrs{"x": Str("3")}))

	got, _ := l.Get("A")
	assert.Equal(t, "3", got.Attrs.String("x"))
	assert.False(t, got.Attrs.Has("y"), "Put replaces the entry wholesale")
}

func TestAttrs_Accessors(t *testing.T) {
	a := Attrs{
		"n_bits":    Num(16),
		"width_str": Str("32"),
		"autologic": Flag(true),
		"null":      cty.NullVal(cty.String),
	}

	testCases := []struct {
		name string
		fn   func() any
		want any
	}{
		{"number as string", func() any { return a.String("n_bits") }, "16"},
		{"string as int", func() any { n, _ := a.Int("width_str"); return n }, 32},
		{"bool", func() any { return a.Bool("autologic") }, true},
		{"missing string", func() any { return a.String("nope") }, ""},
		{"null is absent", func() any { return a.Has("null") }, false},
		{"missing bool", func() any { return a.Bool("nope") }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn())
		})
	}
}
