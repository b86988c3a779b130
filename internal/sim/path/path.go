// Package path is the reference Pathfinder: uniform-cost search over the
// four-connected grid with terrain costs and zone-of-control stops.
package path

import (
	"container/heap"

	"gridciv.ai/internal/sim/game"
)

type Finder struct{}

func New() *Finder { return &Finder{} }

// FindPath returns the cheapest path from from to to within the movement
// budget, excluding the start tile. Occupied tiles are blocked. A tile inside
// an enemy zone of control can be entered but never left, so search stops
// expanding there. nil means no path.
func (f *Finder) FindPath(g *game.Game, from, to game.Vec2i, movementBudget int, civID string) []game.Vec2i {
	if !g.InBounds(from) || !g.InBounds(to) || from == to {
		return nil
	}
	if t := g.TileAt(to); !game.Passable(t.Terrain) || t.UnitID != "" {
		return nil
	}

	type key = game.Vec2i
	dist := map[key]int{from: 0}
	prev := map[key]key{}
	pq := &nodeQueue{{pos: from, cost: 0}}

	for pq.Len() > 0 {
		n := heap.Pop(pq).(node)
		if n.cost > dist[n.pos] {
			continue
		}
		if n.pos == to {
			break
		}
		// A unit that stepped into an enemy ZoC stops there.
		if n.pos != from && g.InEnemyZoC(n.pos, civID) {
			continue
		}
		for _, nb := range neighbors4(g, n.pos) {
			t := g.TileAt(nb)
			cost, ok := game.TerrainCost(t.Terrain)
			if !ok || t.UnitID != "" {
				continue
			}
			nd := n.cost + cost
			if nd > movementBudget {
				continue
			}
			if old, seen := dist[nb]; seen && nd >= old {
				continue
			}
			dist[nb] = nd
			prev[nb] = n.pos
			heap.Push(pq, node{pos: nb, cost: nd})
		}
	}

	if _, ok := dist[to]; !ok {
		return nil
	}
	var out []game.Vec2i
	for p := to; p != from; p = prev[p] {
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// neighbors4 mirrors the engine's fixed N,E,S,W expansion order so equal-cost
// paths resolve the same way everywhere.
func neighbors4(g *game.Game, p game.Vec2i) []game.Vec2i {
	candidates := [4]game.Vec2i{
		{X: p.X, Y: p.Y - 1},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X - 1, Y: p.Y},
	}
	out := make([]game.Vec2i, 0, 4)
	for _, c := range candidates {
		if g.InBounds(c) {
			out = append(out, c)
		}
	}
	return out
}

type node struct {
	pos  game.Vec2i
	cost int
}

type nodeQueue []node

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].pos.Y != q[j].pos.Y {
		return q[i].pos.Y < q[j].pos.Y
	}
	return q[i].pos.X < q[j].pos.X
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)   { *q = append(*q, x.(node)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
