package main

import (
	"math"
	"slices"
	"testing"
)

func containsRef(refs []EntityRef, ref EntityRef) bool {
	return slices.Contains(refs, ref)
}

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(2000)
	grid.Clear()

	ref := EntityRef{Kind: 'e', Idx: 0}
	grid.Insert(100, 100, ref)

	// Query around (100,100) should find it
	if !containsRef(grid.Query(100, 100, 50), ref) {
		t.Error("expected to find entity at (100,100)")
	}

	// Query far away should not find it
	if containsRef(grid.Query(1000, 1000, 50), ref) {
		t.Error("should not find entity at (1000,1000)")
	}
}

func TestSpatialGridCellsTileWorld(t *testing.T) {
	grid := NewSpatialGrid(2050)
	if got := grid.cellSize * float64(grid.cols); math.Abs(got-2050) > 1e-9 {
		t.Errorf("cells should cover the world exactly, got %f", got)
	}
	if grid.cellSize < SpatialCellSize*0.5 || grid.cellSize > SpatialCellSize {
		t.Errorf("unexpected cell size %f", grid.cellSize)
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(2000)
	grid.Insert(500, 500, EntityRef{Kind: 'e', Idx: 0})
	grid.Clear()

	if results := grid.Query(500, 500, 100); len(results) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(results))
	}
}

func TestSpatialGridInsertCircle(t *testing.T) {
	grid := NewSpatialGrid(2000)

	// A brute-sized circle straddling a cell boundary
	ref := EntityRef{Kind: 'e', Idx: 0}
	grid.InsertCircle(195, 195, 24, ref)

	// Query at edge of bounding box should find it
	if !containsRef(grid.Query(172, 172, 1), ref) {
		t.Error("expected to find circle entity near its edge")
	}
	if !containsRef(grid.Query(218, 218, 1), ref) {
		t.Error("expected to find circle entity in the next cell")
	}
}

func TestSpatialGridWrapsInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(2000)

	// Positions outside the world land on the wrapped cell
	left := EntityRef{Kind: 'e', Idx: 0}
	grid.Insert(-10, -10, left)
	if !containsRef(grid.Query(1990, 1990, 5), left) {
		t.Error("expected entity inserted at negative coords on the far side")
	}

	// A circle on the right edge spills into the left column
	edge := EntityRef{Kind: 'e', Idx: 1}
	grid.InsertCircle(1995, 500, 20, edge)
	if !containsRef(grid.Query(10, 500, 5), edge) {
		t.Error("circle should wrap into the first column")
	}

	// A query near the left edge reaches entities on the right
	right := EntityRef{Kind: 'e', Idx: 2}
	grid.Insert(1950, 1000, right)
	if !containsRef(grid.Query(20, 1000, 80), right) {
		t.Error("query should reach across the edge")
	}
}

func TestSpatialGridHugeQueryCoversEverything(t *testing.T) {
	grid := NewSpatialGrid(2000)
	for i := 0; i < 4; i++ {
		grid.Insert(float64(i)*500, float64(i)*500, EntityRef{Kind: 'e', Idx: i})
	}
	got := SortRefs(grid.Query(0, 0, 5000))
	if len(got) != 4 {
		t.Errorf("expected every entity once, got %v", got)
	}
}

func TestSortRefsOrdersAndDedupes(t *testing.T) {
	refs := []EntityRef{
		{Kind: 'e', Idx: 3},
		{Kind: 'e', Idx: 1},
		{Kind: 'e', Idx: 3},
		{Kind: 'p', Idx: 0},
		{Kind: 'e', Idx: 1},
	}
	want := []EntityRef{{Kind: 'e', Idx: 1}, {Kind: 'e', Idx: 3}, {Kind: 'p', Idx: 0}}
	if got := SortRefs(refs); !slices.Equal(got, want) {
		t.Errorf("SortRefs = %v, want %v", got, want)
	}
}
