package render

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// Register access types, as seen by software.
const (
	AccessRead      = "R"
	AccessWrite     = "W"
	AccessReadWrite = "RW"
)

// MaxLog2NItems bounds log2n_items so a register array spans at most 1 GiB.
const MaxLog2NItems = 28

// Reg is one register of a Table with its address assigned.
type Reg struct {
	Group      string
	Name       string
	Type       string
	NBits      int
	RstVal     string
	Addr       int
	Log2NItems int
	Autologic  bool
	Descr      string
}

// Bytes returns the register width in bytes, rounded up to a power of two.
func (r Reg) Bytes() int {
	n := (r.NBits + 7) / 8
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Span returns the number of bytes of address space the register occupies.
func (r Reg) Span() int {
	return r.Bytes() << r.Log2NItems
}

// Readable reports whether software can read the register.
func (r Reg) Readable() bool { return r.Type == AccessRead || r.Type == AccessReadWrite }

// Writable reports whether software can write the register.
func (r Reg) Writable() bool { return r.Type == AccessWrite || r.Type == AccessReadWrite }

// Table is the register map of one descriptor.
type Table struct {
	Regs []Reg
	// AddrW is the number of address bits needed to reach every register.
	AddrW int
}

// BuildTable assigns addresses to the registers of groups in declaration
// order. A register with a non-negative "addr" keeps it; the others take
// the next free address aligned to their width.
func BuildTable(groups []descriptor.Group) (Table, error) {
	var t Table
	type span struct{ lo, hi int }
	var used []span
	next := 0

	overlaps := func(lo, hi int) bool {
		for _, s := range used {
			if lo < s.hi && s.lo < hi {
				return true
			}
		}
		return false
	}

	for _, g := range groups {
		for _, e := range g.Items {
			r, err := newReg(g.Name, e)
			if err != nil {
				return Table{}, err
			}

			if addr, ok := e.Attrs.Int("addr"); ok && addr >= 0 {
				if addr%r.Bytes() != 0 {
					return Table{}, fmt.Errorf("register %s: address %d is not aligned to %d bytes", r.Name, addr, r.Bytes())
				}
				r.Addr = addr
			} else {
				r.Addr = align(next, r.Span())
				for overlaps(r.Addr, r.Addr+r.Span()) {
					r.Addr = align(r.Addr+r.Bytes(), r.Span())
				}
			}

			if overlaps(r.Addr, r.Addr+r.Span()) {
				return Table{}, fmt.Errorf("register %s: address %d overlaps another register", r.Name, r.Addr)
			}
			used = append(used, span{r.Addr, r.Addr + r.Span()})
			if end := r.Addr + r.Span(); end > next {
				next = end
			}
			t.Regs = append(t.Regs, r)
		}
	}

	t.AddrW = addrWidth(next)
	return t, nil
}

// Sorted returns the registers ordered by address.
func (t Table) Sorted() []Reg {
	out := make([]Reg, len(t.Regs))
	copy(out, t.Regs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

func newReg(group string, e descriptor.Entry) (Reg, error) {
	r := Reg{
		Group:     group,
		Name:      e.Name,
		Type:      e.Attrs.String("type"),
		RstVal:    e.Attrs.String("rst_val"),
		Autologic: e.Attrs.Bool("autologic"),
		Descr:     e.Attrs.String("descr"),
	}
	switch r.Type {
	case AccessRead, AccessWrite, AccessReadWrite:
	default:
		return Reg{}, fmt.Errorf("register %s: unknown type %q", e.Name, r.Type)
	}

	n, ok := e.Attrs.Int("n_bits")
	if !ok || n < 1 || n > 32 {
		return Reg{}, fmt.Errorf("register %s: n_bits must be a number between 1 and 32", e.Name)
	}
	r.NBits = n
	if e.Attrs.Has("log2n_items") {
		l, ok := e.Attrs.Int("log2n_items")
		if !ok || l < 0 || l > MaxLog2NItems {
			return Reg{}, fmt.Errorf("register %s: log2n_items must be a number between 0 and %d", e.Name, MaxLog2NItems)
		}
		r.Log2NItems = l
	}
	if r.RstVal == "" {
		r.RstVal = "0"
	}
	return r, nil
}

func align(addr, to int) int {
	if rem := addr % to; rem != 0 {
		return addr + to - rem
	}
	return addr
}

func addrWidth(size int) int {
	if size <= 1 {
		return 1
	}
	return bits.Len(uint(size - 1))
}
