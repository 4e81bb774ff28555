package hungarian

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/ridematch/pkg/assignment"
)

var ErrUnsupportedModel = errors.New("model is not a bipartite degree-one assignment")

const eps = 1e-9

type constraint struct {
	terms []assignment.Term
	op    assignment.Op
	bound float64
}

// edge is a variable with positive gain between a left and a right node.
type edge struct {
	left, right int
	gain        float64
	v           assignment.Var
}

// bipartite is the matching graph recovered from the rows of the model.
type bipartite struct {
	numLeft, numRight int
	edges             []edge
	// free variables sit in no constraint and have positive gain.
	free []assignment.Var
}

/*
recognize checks that every non-empty row reads Σ x ≤ 1 with unit coefficients, that
every variable appears in at most two rows and that the rows can be 2-colored so each
variable joins rows of different colors. Variables in a single row get a private node on
the opposite side. Variables with non-positive gain are dropped: they never improve a
maximization.
*/
func recognize(numVars int, gains []float64, rows []constraint) (*bipartite, error) {
	varRows := make([][]int, numVars)
	for r, c := range rows {
		if len(c.terms) == 0 {
			if c.op == assignment.LessEqual && c.bound < -eps {
				return nil, fmt.Errorf("%w: empty row %d with negative bound", ErrUnsupportedModel, r)
			}
			continue
		}
		if c.op != assignment.LessEqual || math.Abs(c.bound-1) > eps {
			return nil, fmt.Errorf("%w: row %d is %s %g", ErrUnsupportedModel, r, c.op, c.bound)
		}
		for _, t := range c.terms {
			if int(t.Var) < 0 || int(t.Var) >= numVars {
				return nil, fmt.Errorf("%w: row %d references unknown variable %d", ErrUnsupportedModel, r, t.Var)
			}
			if math.Abs(t.Coeff-1) > eps {
				return nil, fmt.Errorf("%w: row %d has coefficient %g", ErrUnsupportedModel, r, t.Coeff)
			}
			vr := varRows[t.Var]
			if len(vr) > 0 && vr[len(vr)-1] == r {
				return nil, fmt.Errorf("%w: variable %d repeated in row %d", ErrUnsupportedModel, t.Var, r)
			}
			if len(vr) == 2 {
				return nil, fmt.Errorf("%w: variable %d in more than two rows", ErrUnsupportedModel, t.Var)
			}
			varRows[t.Var] = append(vr, r)
		}
	}

	adj := make([][]int, len(rows))
	for _, vr := range varRows {
		if len(vr) == 2 {
			adj[vr[0]] = append(adj[vr[0]], vr[1])
			adj[vr[1]] = append(adj[vr[1]], vr[0])
		}
	}

	color := make([]int, len(rows))
	for i := range color {
		color[i] = -1
	}
	for s := range rows {
		if color[s] != -1 {
			continue
		}
		color[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, w := range adj[u] {
				if color[w] == -1 {
					color[w] = 1 - color[u]
					queue = append(queue, w)
				} else if color[w] == color[u] {
					return nil, fmt.Errorf("%w: rows %d and %d form an odd cycle", ErrUnsupportedModel, u, w)
				}
			}
		}
	}

	g := &bipartite{}
	nodeOf := make([]int, len(rows))
	for r := range rows {
		nodeOf[r] = -1
	}
	node := func(r int) int {
		if nodeOf[r] == -1 {
			if color[r] == 0 {
				nodeOf[r] = g.numLeft
				g.numLeft++
			} else {
				nodeOf[r] = g.numRight
				g.numRight++
			}
		}
		return nodeOf[r]
	}

	for v, vr := range varRows {
		gain := gains[v]
		if gain <= eps {
			continue
		}
		switch len(vr) {
		case 0:
			g.free = append(g.free, assignment.Var(v))
		case 1:
			r := vr[0]
			if color[r] == 0 {
				g.edges = append(g.edges, edge{left: node(r), right: g.numRight, gain: gain, v: assignment.Var(v)})
				g.numRight++
			} else {
				g.edges = append(g.edges, edge{left: g.numLeft, right: node(r), gain: gain, v: assignment.Var(v)})
				g.numLeft++
			}
		case 2:
			a, b := vr[0], vr[1]
			if color[a] == 1 {
				a, b = b, a
			}
			g.edges = append(g.edges, edge{left: node(a), right: node(b), gain: gain, v: assignment.Var(v)})
		}
	}
	return g, nil
}
