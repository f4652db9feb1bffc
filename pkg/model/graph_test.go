package model

import (
	"reflect"
	"testing"
)

func TestEdgesDirected(t *testing.T) {
	g := &Graph{
		IsDirected: true,
		Nodes:      []string{"a", "b", "c"},
		Adjacency:  [][]int{{1, 1}, {2}, {0}},
	}

	want := []Edge{{0, 1}, {0, 1}, {1, 2}, {2, 0}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestEdgesUndirected(t *testing.T) {
	// a -- b -- c; a -- b; c -- c;
	g := &Graph{
		Nodes:     []string{"a", "b", "c"},
		Adjacency: [][]int{{1, 1}, {0, 2, 0}, {1, 2, 2}},
	}

	want := []Edge{{0, 1}, {0, 1}, {1, 2}, {2, 2}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestEdgesEmpty(t *testing.T) {
	g := &Graph{Nodes: []string{"a"}, Adjacency: [][]int{{}}}
	if got := g.Edges(); len(got) != 0 {
		t.Errorf("Edges() = %v, want none", got)
	}
}
