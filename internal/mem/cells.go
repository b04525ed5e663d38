// Package mem provides a sparse, grow-only memory of integer cells.
package mem

import (
	"fmt"
	"sort"
)

// DefaultCellsPageSize provides a default for Cells.PageSize.
const DefaultCellsPageSize = 1024

// Cells implements a paged memory of 64-bit signed cells.
//
// Every address reads as 0 until stored to. Storing to an address outside
// any page allocates one page covering it; pages in between are left
// unallocated, but still read as 0. Memory never shrinks.
type Cells struct {
	// PageSize specifies the length for newly allocated pages.
	PageSize uint

	// Limit, if non-zero, is the highest address that may be loaded or stored.
	Limit uint

	pages []page // sorted by base, never overlapping
}

type page struct {
	base  uint
	cells []int64
}

func (p page) end() uint { return p.base + uint(len(p.cells)) }

// LimitError indicates that a load or store went past a memory Limit.
type LimitError struct {
	Addr  uint
	Limit uint
	Op    string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit %v exceeded by %v @%v", lim.Limit, lim.Op, lim.Addr)
}

// Pages returns the number of pages allocated so far.
func (m *Cells) Pages() int { return len(m.pages) }

// Size returns an address one past the end of the highest page allocated so
// far.
func (m *Cells) Size() uint {
	if n := len(m.pages); n > 0 {
		return m.pages[n-1].end()
	}
	return 0
}

// Load returns a single value from the given address.
// Returns an error if addr exceeds any Limit.
func (m *Cells) Load(addr uint) (int64, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	if i := m.search(addr); i < len(m.pages) && m.pages[i].base <= addr {
		p := m.pages[i]
		return p.cells[addr-p.base], nil
	}
	return 0, nil
}

// LoadInto reads len(buf) cells from memory starting at addr, zeroing any
// that fall outside allocated pages.
// Returns an error if Limit would be exceeded; no partial load is done.
func (m *Cells) LoadInto(addr uint, buf []int64) error {
	if len(buf) == 0 {
		return nil
	}
	end := addr + uint(len(buf))
	if err := m.checkLimit(end-1, "load"); err != nil {
		return err
	}
	for i := range buf {
		buf[i] = 0
	}
	for _, p := range m.pages[m.search(addr):] {
		if p.base >= end {
			break
		}
		lo, hi := max(addr, p.base), min(end, p.end())
		copy(buf[lo-addr:hi-addr], p.cells[lo-p.base:hi-p.base])
	}
	return nil
}

// Stor stores any values at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Cells) Stor(addr uint, values ...int64) error {
	if len(values) == 0 {
		return nil
	}
	if err := m.checkLimit(addr+uint(len(values))-1, "stor"); err != nil {
		return err
	}
	for len(values) > 0 {
		p := m.pageFor(addr)
		n := copy(p.cells[addr-p.base:], values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

// Allocated returns the lowest allocated address at or above addr, and false
// if no page lies there.
func (m *Cells) Allocated(addr uint) (uint, bool) {
	i := m.search(addr)
	if i == len(m.pages) {
		return 0, false
	}
	return max(addr, m.pages[i].base), true
}

// search returns the index of the first page ending after addr.
func (m *Cells) search(addr uint) int {
	return sort.Search(len(m.pages), func(i int) bool {
		return m.pages[i].end() > addr
	})
}

// pageFor returns the page covering addr, allocating it if needed. A new
// page is aligned to PageSize, but trimmed to fit between its neighbours.
func (m *Cells) pageFor(addr uint) *page {
	i := m.search(addr)
	if i < len(m.pages) && m.pages[i].base <= addr {
		return &m.pages[i]
	}

	size := m.PageSize
	if size == 0 {
		size = DefaultCellsPageSize
		m.PageSize = size
	}
	base := addr / size * size
	if i > 0 {
		if prev := m.pages[i-1].end(); base < prev {
			base = prev
		}
	}
	end := base + size
	if i < len(m.pages) && end > m.pages[i].base {
		end = m.pages[i].base
	}

	m.pages = append(m.pages, page{})
	copy(m.pages[i+1:], m.pages[i:])
	m.pages[i] = page{base: base, cells: make([]int64, end-base)}
	return &m.pages[i]
}

func (m *Cells) checkLimit(addr uint, op string) error {
	if m.Limit != 0 && addr > m.Limit {
		return LimitError{Addr: addr, Limit: m.Limit, Op: op}
	}
	return nil
}

// Layout describes how memory is paged, for tests and debugging.
type Layout struct {
	Bases []uint
	Sizes []uint
	Pages [][]int64
}

// Layout returns the current page layout; the returned pages alias memory.
func (m *Cells) Layout() (lay Layout) {
	for _, p := range m.pages {
		lay.Bases = append(lay.Bases, p.base)
		lay.Sizes = append(lay.Sizes, uint(len(p.cells)))
		lay.Pages = append(lay.Pages, p.cells)
	}
	return lay
}
