package supersession

// Edge says that OldPartNo has been superseded by NewPartNo.
type Edge struct {
	OldPartNo string
	NewPartNo string
}

type graph map[string]map[string]struct{}

func (g graph) add(e Edge) {
	targets, found := g[e.OldPartNo]
	if !found {
		targets = make(map[string]struct{})
		g[e.OldPartNo] = targets
	}
	targets[e.NewPartNo] = struct{}{}
}

// reachable reports whether to can be reached from from by following edges.
func (g graph) reachable(from, to string) bool {
	if from == to {
		return true
	}

	visited := map[string]struct{}{from: {}}
	stack := []string{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for next := range g[node] {
			if next == to {
				return true
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			stack = append(stack, next)
		}
	}

	return false
}

// DetectCycles returns the indexes of the incoming edges that would close a cycle.
//
// The graph starts from the existing edges. Incoming edges are checked in order and
// every accepted edge joins the graph before the next one is checked, so the edge that
// completes a cycle within the batch is the one rejected.
func DetectCycles(existing, incoming []Edge) map[int]struct{} {
	g := make(graph)
	for _, e := range existing {
		g.add(e)
	}

	rejected := make(map[int]struct{})
	for i, e := range incoming {
		if g.reachable(e.NewPartNo, e.OldPartNo) {
			rejected[i] = struct{}{}
			continue
		}
		g.add(e)
	}

	return rejected
}
