// Maximum weight matching in general graphs.
//
// The implementation follows the primal-dual method of Edmonds with
// the O(n^3) bookkeeping described by Galil ("Efficient algorithms for
// finding maximum matching in graphs", 1986). All computations are done
// on integers: the slack of an edge is defined as u_i + u_j - 2w_ij so
// that the dual variables stay integral.
package matching

import "slices"

// An Edge of an undirected graph between the vertices U and V
type Edge struct {
	U, V   int
	Weight int64
}

type matcher struct {
	edges          []Edge
	n              int
	maxCardinality bool

	// endpoint[p] is the vertex at endpoint p, edge k has
	// the endpoints 2k and 2k+1
	endpoint []int
	// neighbEnd[v] lists the remote endpoints of the edges of v
	neighbEnd [][]int

	// mate[v] is the remote endpoint of v's matched edge or -1
	mate []int

	// Top-level blossom labels: 0 free, 1 S, 2 T, 5 breadcrumb
	label    []int
	labelEnd []int

	inBlossom     []int
	blossomParent []int
	blossomChilds [][]int
	blossomBase   []int
	blossomEndps  [][]int

	bestEdge         []int
	blossomBestEdges [][]int
	unusedBlossoms   []int

	dualVar   []int64
	allowEdge []bool
	queue     []int
}

// MaxWeightMatching computes a maximum weight matching of the graph
// given by its edges. When maxCardinality is true only maximum cardinality
// matchings are considered.
//
// The result is the mate slice: mate[v] is the vertex matched to v
// or -1 when v is single. Self loops are ignored.
func MaxWeightMatching(edges []Edge, maxCardinality bool) []int {
	edges = slices.DeleteFunc(slices.Clone(edges), func(e Edge) bool { return e.U == e.V })
	if len(edges) == 0 {
		return nil
	}

	m := newMatcher(edges, maxCardinality)
	m.solve()

	mate := make([]int, m.n)
	for v := range m.n {
		if m.mate[v] >= 0 {
			mate[v] = m.endpoint[m.mate[v]]
		} else {
			mate[v] = -1
		}
	}
	return mate
}

func newMatcher(edges []Edge, maxCardinality bool) *matcher {
	n := 0
	var maxWeight int64
	for _, e := range edges {
		n = max(n, e.U+1, e.V+1)
		maxWeight = max(maxWeight, e.Weight)
	}

	m := &matcher{
		edges:          edges,
		n:              n,
		maxCardinality: maxCardinality,
	}

	m.endpoint = make([]int, 2*len(edges))
	m.neighbEnd = make([][]int, n)
	for k, e := range edges {
		m.endpoint[2*k] = e.U
		m.endpoint[2*k+1] = e.V
		m.neighbEnd[e.U] = append(m.neighbEnd[e.U], 2*k+1)
		m.neighbEnd[e.V] = append(m.neighbEnd[e.V], 2*k)
	}

	m.mate = filled(n, -1)
	m.label = make([]int, 2*n)
	m.labelEnd = filled(2*n, -1)
	m.inBlossom = make([]int, n)
	m.blossomBase = filled(2*n, -1)
	for v := range n {
		m.inBlossom[v] = v
		m.blossomBase[v] = v
	}
	m.blossomParent = filled(2*n, -1)
	m.blossomChilds = make([][]int, 2*n)
	m.blossomEndps = make([][]int, 2*n)
	m.bestEdge = filled(2*n, -1)
	m.blossomBestEdges = make([][]int, 2*n)
	m.unusedBlossoms = make([]int, 0, n)
	for b := n; b < 2*n; b++ {
		m.unusedBlossoms = append(m.unusedBlossoms, b)
	}
	m.dualVar = make([]int64, 2*n)
	for v := range n {
		m.dualVar[v] = maxWeight
	}
	m.allowEdge = make([]bool, len(edges))

	return m
}

func (m *matcher) slack(k int) int64 {
	e := m.edges[k]
	return m.dualVar[e.U] + m.dualVar[e.V] - 2*e.Weight
}

// Returns the vertices contained in the (possibly nested) blossom b
func (m *matcher) leaves(b int) []int {
	if b < m.n {
		return []int{b}
	}
	leaves := make([]int, 0, len(m.blossomChilds[b]))
	for _, t := range m.blossomChilds[b] {
		leaves = append(leaves, m.leaves(t)...)
	}
	return leaves
}

// Labels the top-level blossom containing w with t, reached
// through endpoint p
func (m *matcher) assignLabel(w, t, p int) {
	b := m.inBlossom[w]
	m.label[w], m.label[b] = t, t
	m.labelEnd[w], m.labelEnd[b] = p, p
	m.bestEdge[w], m.bestEdge[b] = -1, -1

	switch t {
	case 1:
		m.queue = append(m.queue, m.leaves(b)...)
	case 2:
		base := m.blossomBase[b]
		m.assignLabel(m.endpoint[m.mate[base]], 1, m.mate[base]^1)
	}
}

// Traces back from v and w to discover either a new blossom
// or an augmenting path. Returns the base vertex of the new blossom
// or -1.
func (m *matcher) scanBlossom(v, w int) int {
	path := make([]int, 0, 8)
	base := -1

	for v != -1 || w != -1 {
		b := m.inBlossom[v]
		if m.label[b]&4 != 0 {
			base = m.blossomBase[b]
			break
		}
		path = append(path, b)
		m.label[b] = 5

		if m.labelEnd[b] == -1 {
			v = -1
		} else {
			v = m.endpoint[m.labelEnd[b]]
			b = m.inBlossom[v]
			v = m.endpoint[m.labelEnd[b]]
		}

		if w != -1 {
			v, w = w, v
		}
	}

	for _, b := range path {
		m.label[b] = 1
	}

	return base
}

// Constructs a new blossom with the given base, containing edge k
// which connects a pair of S vertices
func (m *matcher) addBlossom(base, k int) {
	v, w := m.edges[k].U, m.edges[k].V
	bb := m.inBlossom[base]
	bv := m.inBlossom[v]
	bw := m.inBlossom[w]

	b := m.unusedBlossoms[len(m.unusedBlossoms)-1]
	m.unusedBlossoms = m.unusedBlossoms[:len(m.unusedBlossoms)-1]

	m.blossomBase[b] = base
	m.blossomParent[b] = -1
	m.blossomParent[bb] = b

	path := make([]int, 0, 8)
	endps := make([]int, 0, 8)
	for bv != bb {
		m.blossomParent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelEnd[bv])
		v = m.endpoint[m.labelEnd[bv]]
		bv = m.inBlossom[v]
	}
	path = append(path, bb)
	slices.Reverse(path)
	slices.Reverse(endps)
	endps = append(endps, 2*k)

	for bw != bb {
		m.blossomParent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelEnd[bw]^1)
		w = m.endpoint[m.labelEnd[bw]]
		bw = m.inBlossom[w]
	}

	m.blossomChilds[b] = path
	m.blossomEndps[b] = endps

	m.label[b] = 1
	m.labelEnd[b] = m.labelEnd[bb]
	m.dualVar[b] = 0

	for _, v := range m.leaves(b) {
		if m.label[m.inBlossom[v]] == 2 {
			// T vertices inside the blossom become S vertices
			m.queue = append(m.queue, v)
		}
		m.inBlossom[v] = b
	}

	bestEdgeTo := filled(2*m.n, -1)
	for _, bv := range path {
		var nbLists [][]int
		if m.blossomBestEdges[bv] == nil {
			for _, v := range m.leaves(bv) {
				nbList := make([]int, 0, len(m.neighbEnd[v]))
				for _, p := range m.neighbEnd[v] {
					nbList = append(nbList, p/2)
				}
				nbLists = append(nbLists, nbList)
			}
		} else {
			nbLists = [][]int{m.blossomBestEdges[bv]}
		}

		for _, nbList := range nbLists {
			for _, k := range nbList {
				j := m.edges[k].V
				if m.inBlossom[j] == b {
					j = m.edges[k].U
				}
				bj := m.inBlossom[j]
				if bj != b && m.label[bj] == 1 &&
					(bestEdgeTo[bj] == -1 || m.slack(k) < m.slack(bestEdgeTo[bj])) {
					bestEdgeTo[bj] = k
				}
			}
		}

		m.blossomBestEdges[bv] = nil
		m.bestEdge[bv] = -1
	}

	bestEdges := make([]int, 0, len(bestEdgeTo))
	for _, k := range bestEdgeTo {
		if k != -1 {
			bestEdges = append(bestEdges, k)
		}
	}
	m.blossomBestEdges[b] = bestEdges

	m.bestEdge[b] = -1
	for _, k := range bestEdges {
		if m.bestEdge[b] == -1 || m.slack(k) < m.slack(m.bestEdge[b]) {
			m.bestEdge[b] = k
		}
	}
}

// Expands the top-level blossom b
func (m *matcher) expandBlossom(b int, endStage bool) {
	for _, s := range m.blossomChilds[b] {
		m.blossomParent[s] = -1
		if s < m.n {
			m.inBlossom[s] = s
		} else if endStage && m.dualVar[s] == 0 {
			m.expandBlossom(s, endStage)
		} else {
			for _, v := range m.leaves(s) {
				m.inBlossom[v] = s
			}
		}
	}

	if !endStage && m.label[b] == 2 {
		// Relabel the sub-blossoms on the path from the entry child
		// to the base as alternating T and S
		childs := m.blossomChilds[b]
		endps := m.blossomEndps[b]

		entryChild := m.inBlossom[m.endpoint[m.labelEnd[b]^1]]
		j := slices.Index(childs, entryChild)
		var jStep, endpTrick int
		if j&1 != 0 {
			j -= len(childs)
			jStep = 1
			endpTrick = 0
		} else {
			jStep = -1
			endpTrick = 1
		}

		p := m.labelEnd[b]
		for j != 0 {
			m.label[m.endpoint[p^1]] = 0
			m.label[m.endpoint[at(endps, j-endpTrick)^endpTrick^1]] = 0
			m.assignLabel(m.endpoint[p^1], 2, p)
			m.allowEdge[at(endps, j-endpTrick)/2] = true
			j += jStep
			p = at(endps, j-endpTrick) ^ endpTrick
			m.allowEdge[p/2] = true
			j += jStep
		}

		bv := at(childs, j)
		m.label[m.endpoint[p^1]] = 2
		m.label[bv] = 2
		m.labelEnd[m.endpoint[p^1]] = p
		m.labelEnd[bv] = p
		m.bestEdge[bv] = -1
		j += jStep

		for at(childs, j) != entryChild {
			bv := at(childs, j)
			if m.label[bv] == 1 {
				j += jStep
				continue
			}

			v := -1
			for _, leaf := range m.leaves(bv) {
				v = leaf
				if m.label[leaf] != 0 {
					break
				}
			}

			if m.label[v] != 0 {
				m.label[v] = 0
				m.label[m.endpoint[m.mate[m.blossomBase[bv]]]] = 0
				m.assignLabel(v, 2, m.labelEnd[v])
			}
			j += jStep
		}
	}

	m.label[b], m.labelEnd[b] = -1, -1
	m.blossomChilds[b], m.blossomEndps[b] = nil, nil
	m.blossomBase[b] = -1
	m.blossomBestEdges[b] = nil
	m.bestEdge[b] = -1
	m.unusedBlossoms = append(m.unusedBlossoms, b)
}

// Swaps matched and unmatched edges over an alternating path
// through blossom b between vertex v and the base vertex
func (m *matcher) augmentBlossom(b, v int) {
	t := v
	for m.blossomParent[t] != b {
		t = m.blossomParent[t]
	}
	if t >= m.n {
		m.augmentBlossom(t, v)
	}

	childs := m.blossomChilds[b]
	endps := m.blossomEndps[b]

	i := slices.Index(childs, t)
	j := i
	var jStep, endpTrick int
	if i&1 != 0 {
		j -= len(childs)
		jStep = 1
		endpTrick = 0
	} else {
		jStep = -1
		endpTrick = 1
	}

	for j != 0 {
		j += jStep
		t = at(childs, j)
		p := at(endps, j-endpTrick) ^ endpTrick
		if t >= m.n {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jStep
		t = at(childs, j)
		if t >= m.n {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}

	// Rotate so that the new base is the first child
	m.blossomChilds[b] = append(slices.Clone(childs[i:]), childs[:i]...)
	m.blossomEndps[b] = append(slices.Clone(endps[i:]), endps[:i]...)
	m.blossomBase[b] = m.blossomBase[m.blossomChilds[b][0]]
}

// Swaps matched and unmatched edges over the augmenting path
// through edge k
func (m *matcher) augmentMatching(k int) {
	e := m.edges[k]
	starts := [2][2]int{{e.U, 2*k + 1}, {e.V, 2 * k}}

	for _, start := range starts {
		s, p := start[0], start[1]
		for {
			bs := m.inBlossom[s]
			if bs >= m.n {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p

			if m.labelEnd[bs] == -1 {
				// Reached a single vertex
				break
			}

			t := m.endpoint[m.labelEnd[bs]]
			bt := m.inBlossom[t]
			s = m.endpoint[m.labelEnd[bt]]
			j := m.endpoint[m.labelEnd[bt]^1]
			if bt >= m.n {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelEnd[bt]
			p = m.labelEnd[bt] ^ 1
		}
	}
}

func (m *matcher) solve() {
	for range m.n {
		// Each stage either augments the matching or concludes
		// that no further improvement is possible
		clear(m.label)
		fill(m.bestEdge, -1)
		for b := m.n; b < 2*m.n; b++ {
			m.blossomBestEdges[b] = nil
		}
		clear(m.allowEdge)
		m.queue = m.queue[:0]

		for v := range m.n {
			if m.mate[v] == -1 && m.label[m.inBlossom[v]] == 0 {
				m.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for len(m.queue) > 0 && !augmented {
				v := m.queue[len(m.queue)-1]
				m.queue = m.queue[:len(m.queue)-1]
				augmented = m.scanNeighbours(v)
			}
			if augmented {
				break
			}

			if done := m.updateDuals(); done {
				break
			}
		}

		if !augmented {
			break
		}

		// End of stage: expand all S blossoms with zero dual
		for b := m.n; b < 2*m.n; b++ {
			if m.blossomParent[b] == -1 && m.blossomBase[b] >= 0 &&
				m.label[b] == 1 && m.dualVar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}
}

// Scans the edges of the S vertex v. Returns true when the
// matching was augmented.
func (m *matcher) scanNeighbours(v int) bool {
	for _, p := range m.neighbEnd[v] {
		k := p / 2
		w := m.endpoint[p]
		if m.inBlossom[v] == m.inBlossom[w] {
			continue
		}

		var kSlack int64
		if !m.allowEdge[k] {
			kSlack = m.slack(k)
			if kSlack <= 0 {
				m.allowEdge[k] = true
			}
		}

		if m.allowEdge[k] {
			switch {
			case m.label[m.inBlossom[w]] == 0:
				m.assignLabel(w, 2, p^1)
			case m.label[m.inBlossom[w]] == 1:
				base := m.scanBlossom(v, w)
				if base >= 0 {
					m.addBlossom(base, k)
				} else {
					m.augmentMatching(k)
					return true
				}
			case m.label[w] == 0:
				m.label[w] = 2
				m.labelEnd[w] = p ^ 1
			}
		} else if m.label[m.inBlossom[w]] == 1 {
			b := m.inBlossom[v]
			if m.bestEdge[b] == -1 || kSlack < m.slack(m.bestEdge[b]) {
				m.bestEdge[b] = k
			}
		} else if m.label[w] == 0 {
			if m.bestEdge[w] == -1 || kSlack < m.slack(m.bestEdge[w]) {
				m.bestEdge[w] = k
			}
		}
	}
	return false
}

// Performs a dual adjustment. Returns true when the stage
// has to end without an augmentation.
func (m *matcher) updateDuals() bool {
	deltaType := -1
	var delta int64
	deltaEdge, deltaBlossom := -1, -1

	if !m.maxCardinality {
		deltaType = 1
		delta = slices.Min(m.dualVar[:m.n])
	}

	for v := range m.n {
		if m.label[m.inBlossom[v]] == 0 && m.bestEdge[v] != -1 {
			d := m.slack(m.bestEdge[v])
			if deltaType == -1 || d < delta {
				delta = d
				deltaType = 2
				deltaEdge = m.bestEdge[v]
			}
		}
	}

	for b := range 2 * m.n {
		if m.blossomParent[b] == -1 && m.label[b] == 1 && m.bestEdge[b] != -1 {
			d := m.slack(m.bestEdge[b]) / 2
			if deltaType == -1 || d < delta {
				delta = d
				deltaType = 3
				deltaEdge = m.bestEdge[b]
			}
		}
	}

	for b := m.n; b < 2*m.n; b++ {
		if m.blossomBase[b] >= 0 && m.blossomParent[b] == -1 && m.label[b] == 2 &&
			(deltaType == -1 || m.dualVar[b] < delta) {
			delta = m.dualVar[b]
			deltaType = 4
			deltaBlossom = b
		}
	}

	if deltaType == -1 {
		// No further improvement possible, maximum cardinality
		// is reached. Do a final delta update to make the optimum
		// verifiable.
		deltaType = 1
		delta = max(0, slices.Min(m.dualVar[:m.n]))
	}

	for v := range m.n {
		switch m.label[m.inBlossom[v]] {
		case 1:
			m.dualVar[v] -= delta
		case 2:
			m.dualVar[v] += delta
		}
	}
	for b := m.n; b < 2*m.n; b++ {
		if m.blossomBase[b] >= 0 && m.blossomParent[b] == -1 {
			switch m.label[b] {
			case 1:
				m.dualVar[b] += delta
			case 2:
				m.dualVar[b] -= delta
			}
		}
	}

	switch deltaType {
	case 1:
		return true
	case 2:
		m.allowEdge[deltaEdge] = true
		i, j := m.edges[deltaEdge].U, m.edges[deltaEdge].V
		if m.label[m.inBlossom[i]] == 0 {
			i = j
		}
		m.queue = append(m.queue, i)
	case 3:
		m.allowEdge[deltaEdge] = true
		m.queue = append(m.queue, m.edges[deltaEdge].U)
	case 4:
		m.expandBlossom(deltaBlossom, false)
	}
	return false
}

// Indexes s like a python list, negative indices count from the end
func at(s []int, i int) int {
	if i < 0 {
		i += len(s)
	}
	return s[i]
}

func filled(n, value int) []int {
	s := make([]int, n)
	fill(s, value)
	return s
}

func fill(s []int, value int) {
	for i := range s {
		s[i] = value
	}
}
