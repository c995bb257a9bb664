package domain

import "sort"

// Hierarchy is an adjacency view over a flat brand list, built once per request
type Hierarchy struct {
	byID     map[uint]*Brand
	children map[uint][]uint
	order    []uint
}

// NewHierarchy indexes brands by id and by parent
func NewHierarchy(brands []Brand) *Hierarchy {
	h := &Hierarchy{
		byID:     make(map[uint]*Brand, len(brands)),
		children: make(map[uint][]uint),
		order:    make([]uint, 0, len(brands)),
	}
	for i := range brands {
		b := &brands[i]
		h.byID[b.ID] = b
		h.order = append(h.order, b.ID)
		if b.ParentID != nil {
			h.children[*b.ParentID] = append(h.children[*b.ParentID], b.ID)
		}
	}
	return h
}

// Get returns the brand with id
func (h *Hierarchy) Get(id uint) (*Brand, bool) {
	b, ok := h.byID[id]
	return b, ok
}

// Has reports whether id is a known brand
func (h *Hierarchy) Has(id uint) bool {
	_, ok := h.byID[id]
	return ok
}

// Len returns the number of brands
func (h *Hierarchy) Len() int {
	return len(h.byID)
}

// Children returns the direct children of id ordered by name
func (h *Hierarchy) Children(id uint) []Brand {
	ids := h.children[id]
	out := make([]Brand, 0, len(ids))
	for _, cid := range ids {
		out = append(out, h.byID[cid].Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareNames(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Descendants returns every brand reachable from id through child links, id excluded
func (h *Hierarchy) Descendants(id uint) map[uint]struct{} {
	seen := make(map[uint]struct{})
	stack := append([]uint(nil), h.children[id]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[n]; ok || n == id {
			continue
		}
		seen[n] = struct{}{}
		stack = append(stack, h.children[n]...)
	}
	return seen
}

// IsDescendant reports whether candidate lies in the subtree below ancestor
func (h *Hierarchy) IsDescendant(ancestor, candidate uint) bool {
	_, ok := h.Descendants(ancestor)[candidate]
	return ok
}

// WouldCycle reports whether making newParent the parent of id would form a cycle
func (h *Hierarchy) WouldCycle(id, newParent uint) bool {
	return id == newParent || h.IsDescendant(id, newParent)
}

// Ancestors returns the chain above id, outermost root first
func (h *Hierarchy) Ancestors(id uint) []Brand {
	var chain []Brand
	seen := map[uint]struct{}{id: {}}

	b, ok := h.byID[id]
	for ok && b.ParentID != nil {
		if _, loop := seen[*b.ParentID]; loop {
			break
		}
		parent, found := h.byID[*b.ParentID]
		if !found {
			break
		}
		seen[parent.ID] = struct{}{}
		chain = append(chain, parent.Summary())
		b = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Depth is the number of ancestors of id
func (h *Hierarchy) Depth(id uint) int {
	return len(h.Ancestors(id))
}

// BrandNode is one brand of a hierarchical listing
type BrandNode struct {
	Brand
	Children []*BrandNode `json:"children"`
}

// BuildForest nests brands by parent_id. A brand whose parent is not part of
// brands is treated as a root, so filtering never drops a subtree.
// Input order is preserved at every level.
func BuildForest(brands []Brand) []*BrandNode {
	nodes := make(map[uint]*BrandNode, len(brands))
	for _, b := range brands {
		nodes[b.ID] = &BrandNode{Brand: b.Summary(), Children: []*BrandNode{}}
	}

	roots := make([]*BrandNode, 0)
	for _, b := range brands {
		node := nodes[b.ID]
		if b.ParentID != nil {
			if parent, ok := nodes[*b.ParentID]; ok && *b.ParentID != b.ID {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
