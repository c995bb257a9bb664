package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-admin/pkg/apperror"
)

func uintPtr(v uint) *uint { return &v }

// 1 Acme
// ├── 2 Acme Home
// │   └── 4 Acme Kitchen
// └── 3 Acme Garden
// 5 Zeta
func sampleBrands() []Brand {
	return []Brand{
		{ID: 1, Name: "Acme", IsActive: true},
		{ID: 2, Name: "Acme Home", ParentID: uintPtr(1), IsActive: true},
		{ID: 3, Name: "Acme Garden", ParentID: uintPtr(1), IsActive: false},
		{ID: 4, Name: "Acme Kitchen", ParentID: uintPtr(2), IsActive: true},
		{ID: 5, Name: "Zeta", IsActive: true},
	}
}

func TestHierarchyDescendants(t *testing.T) {
	h := NewHierarchy(sampleBrands())

	assert.Equal(t, map[uint]struct{}{2: {}, 3: {}, 4: {}}, h.Descendants(1))
	assert.Equal(t, map[uint]struct{}{4: {}}, h.Descendants(2))
	assert.Empty(t, h.Descendants(5))
	assert.Empty(t, h.Descendants(99))
}

func TestHierarchyWouldCycle(t *testing.T) {
	h := NewHierarchy(sampleBrands())

	tests := []struct {
		name      string
		id        uint
		newParent uint
		want      bool
	}{
		{"self", 2, 2, true},
		{"direct child", 1, 2, true},
		{"grandchild", 1, 4, true},
		{"sibling", 2, 3, false},
		{"other tree", 1, 5, false},
		{"move leaf under root", 4, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.WouldCycle(tt.id, tt.newParent))
		})
	}
}

func TestHierarchyAncestorsAndDepth(t *testing.T) {
	h := NewHierarchy(sampleBrands())

	ancestors := h.Ancestors(4)
	require.Len(t, ancestors, 2)
	assert.Equal(t, uint(1), ancestors[0].ID)
	assert.Equal(t, uint(2), ancestors[1].ID)
	assert.Equal(t, 2, h.Depth(4))
	assert.Equal(t, 0, h.Depth(1))
	assert.Empty(t, h.Ancestors(5))
}

func TestHierarchyAncestorsStopsOnCorruptLoop(t *testing.T) {
	h := NewHierarchy([]Brand{
		{ID: 1, Name: "A", ParentID: uintPtr(2)},
		{ID: 2, Name: "B", ParentID: uintPtr(1)},
	})
	assert.Len(t, h.Ancestors(1), 1)
}

func TestHierarchyChildrenOrderedByName(t *testing.T) {
	h := NewHierarchy(sampleBrands())

	children := h.Children(1)
	require.Len(t, children, 2)
	assert.Equal(t, "Acme Garden", children[0].Name)
	assert.Equal(t, "Acme Home", children[1].Name)
	assert.Nil(t, children[0].Children)
}

func TestParentChainsTerminate(t *testing.T) {
	brands := sampleBrands()
	h := NewHierarchy(brands)

	for _, b := range brands {
		steps := 0
		cur, _ := h.Get(b.ID)
		for cur.ParentID != nil {
			steps++
			require.LessOrEqual(t, steps, h.Len())
			cur, _ = h.Get(*cur.ParentID)
		}
	}
}

func TestBuildForest(t *testing.T) {
	forest := BuildForest(sampleBrands())

	require.Len(t, forest, 2)
	assert.Equal(t, uint(1), forest[0].ID)
	assert.Equal(t, uint(5), forest[1].ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, uint(2), forest[0].Children[0].ID)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, uint(4), forest[0].Children[0].Children[0].ID)
	assert.NotNil(t, forest[1].Children)
}

func TestBuildForestSurfacesOrphanedSubtrees(t *testing.T) {
	var active []Brand
	for _, b := range sampleBrands() {
		if b.ID != 1 {
			active = append(active, b)
		}
	}

	forest := BuildForest(active)

	ids := make([]uint, 0, len(forest))
	for _, n := range forest {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []uint{2, 3, 5}, ids)
	assert.Equal(t, uint(4), forest[0].Children[0].ID)
}

func TestBrandFilterMatches(t *testing.T) {
	active := true
	b := Brand{ID: 1, Name: "Acme", Description: "Power Tools", IsActive: true}
	child := Brand{ID: 2, Name: "Acme Pro", ParentID: uintPtr(1)}

	assert.True(t, BrandFilter{Search: "tools"}.Matches(&b))
	assert.False(t, BrandFilter{Search: "garden"}.Matches(&b))
	assert.True(t, BrandFilter{IsActive: &active, RootsOnly: true}.Matches(&b))
	assert.False(t, BrandFilter{RootsOnly: true}.Matches(&child))
	assert.False(t, BrandFilter{IsActive: &active}.Matches(&child))
}

func TestSortBrands(t *testing.T) {
	brands := []Brand{{ID: 1, Name: "b"}, {ID: 2, Name: "a"}, {ID: 3, Name: "c"}}

	require.NoError(t, SortBrands(brands, "", ""))
	assert.Equal(t, "a", brands[0].Name)

	require.NoError(t, SortBrands(brands, "id", "desc"))
	assert.Equal(t, uint(3), brands[0].ID)

	err := SortBrands(brands, "secret", "asc")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	err = SortBrands(brands, "name", "sideways")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSortBrandsMatchesChildOrder(t *testing.T) {
	brands := []Brand{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "beta", ParentID: uintPtr(1)},
		{ID: 3, Name: "Alpha", ParentID: uintPtr(1)},
		{ID: 4, Name: "Gamma", ParentID: uintPtr(1)},
	}

	children := NewHierarchy(brands).Children(1)
	listed := append([]Brand(nil), brands[1:]...)
	require.NoError(t, SortBrands(listed, "name", "asc"))

	require.Len(t, children, len(listed))
	for i := range listed {
		assert.Equal(t, listed[i].ID, children[i].ID)
	}
	assert.Equal(t, "Alpha", listed[0].Name)
	assert.Equal(t, "beta", listed[1].Name)
}
