// Package scope partitions document blocks into a global group and per-scope
// groups. Groups hold indices into the source block slice, so a block listed
// under several scopes is stored once.
package scope

import "github.com/metalagman/uamc/internal/uam"

// Group is one scope and the indices of its blocks in source order.
type Group struct {
	Scope   string
	Indices []int
}

// Groups is the result of Partition.
type Groups struct {
	blocks []uam.Block
	global []int
	scoped []Group
	byKey  map[string]int
}

// Partition groups blocks by scope. Global blocks and the blocks of each scope
// keep document order; scopes are ordered by first occurrence in the document.
func Partition(blocks []uam.Block) *Groups {
	g := &Groups{
		blocks: blocks,
		byKey:  make(map[string]int),
	}
	for i, b := range blocks {
		scopes := b.ScopeSet()
		if len(scopes) == 0 {
			g.global = append(g.global, i)
			continue
		}
		for _, s := range scopes {
			pos, ok := g.byKey[s]
			if !ok {
				pos = len(g.scoped)
				g.byKey[s] = pos
				g.scoped = append(g.scoped, Group{Scope: s})
			}
			g.scoped[pos].Indices = append(g.scoped[pos].Indices, i)
		}
	}
	return g
}

// Global returns the blocks that apply everywhere.
func (g *Groups) Global() []uam.Block {
	return g.resolve(g.global)
}

// Keys returns the scope keys in first-occurrence order.
func (g *Groups) Keys() []string {
	keys := make([]string, 0, len(g.scoped))
	for _, grp := range g.scoped {
		keys = append(keys, grp.Scope)
	}
	return keys
}

// Scoped returns the blocks of one scope, or nil if the scope is unknown.
func (g *Groups) Scoped(key string) []uam.Block {
	pos, ok := g.byKey[key]
	if !ok {
		return nil
	}
	return g.resolve(g.scoped[pos].Indices)
}

// Groups returns the index view of every scope group in order.
func (g *Groups) Groups() []Group {
	out := make([]Group, len(g.scoped))
	for i, grp := range g.scoped {
		out[i] = Group{Scope: grp.Scope, Indices: append([]int(nil), grp.Indices...)}
	}
	return out
}

// Block returns the source block at index i.
func (g *Groups) Block(i int) uam.Block {
	return g.blocks[i]
}

// Len reports the number of scope groups.
func (g *Groups) Len() int {
	return len(g.scoped)
}

func (g *Groups) resolve(indices []int) []uam.Block {
	if len(indices) == 0 {
		return nil
	}
	out := make([]uam.Block, len(indices))
	for i, idx := range indices {
		out[i] = g.blocks[idx]
	}
	return out
}
