package compare

import (
	"sort"
	"sync"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// Strategy selects how the matcher assigns pairs.
type Strategy string

const (
	// StrategyGreedy repeatedly takes the highest-scoring remaining pair.
	StrategyGreedy Strategy = "greedy"
	// StrategyOptimal solves the maximum-weight bipartite assignment exactly.
	StrategyOptimal Strategy = "optimal"
)

// Rows of the similarity matrix are scored concurrently once the current
// side grows past this size; below it the goroutine fan-out costs more than
// it saves.
const parallelRowCutoff = 64

// Matcher produces a one-to-one assignment between current and archived
// records whose similarity clears the threshold.
type Matcher struct {
	scorer    *Scorer
	threshold float64
	strategy  Strategy
}

// NewMatcher builds a matcher. The threshold must already be validated via
// Options.Validate.
func NewMatcher(scorer *Scorer, threshold float64, strategy Strategy) *Matcher {
	return &Matcher{scorer: scorer, threshold: threshold, strategy: strategy}
}

// Match computes the full pairwise similarity matrix and assigns pairs.
// Matching anything against an empty set yields an empty assignment.
func (m *Matcher) Match(current, archived entity.RequestSet) *Assignment {
	if len(current.Records) == 0 || len(archived.Records) == 0 {
		return newAssignment()
	}
	matrix := m.scoreMatrix(current, archived)
	if m.strategy == StrategyOptimal {
		return m.assignOptimal(matrix)
	}
	return m.assignGreedy(matrix)
}

func (m *Matcher) scoreMatrix(current, archived entity.RequestSet) [][]float64 {
	matrix := make([][]float64, len(current.Records))
	scoreRow := func(i int) {
		row := make([]float64, len(archived.Records))
		for j, a := range archived.Records {
			row[j] = m.scorer.Similarity(current.Records[i], a)
		}
		matrix[i] = row
	}

	if len(current.Records) < parallelRowCutoff {
		for i := range current.Records {
			scoreRow(i)
		}
		return matrix
	}

	var wg sync.WaitGroup
	for i := range current.Records {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scoreRow(i)
		}(i)
	}
	wg.Wait()
	return matrix
}

type candidate struct {
	currentIdx  int
	archivedIdx int
	score       float64
}

// assignGreedy takes candidates best-first. Exact score ties break toward
// the pair appearing earliest in (current, archived) iteration order, which
// keeps the result deterministic across runs.
func (m *Matcher) assignGreedy(matrix [][]float64) *Assignment {
	var candidates []candidate
	for i, row := range matrix {
		for j, score := range row {
			if score >= m.threshold {
				candidates = append(candidates, candidate{i, j, score})
			}
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.currentIdx != cb.currentIdx {
			return ca.currentIdx < cb.currentIdx
		}
		return ca.archivedIdx < cb.archivedIdx
	})

	assignment := newAssignment()
	for _, c := range candidates {
		if _, taken := assignment.ArchivedFor(c.currentIdx); taken {
			continue
		}
		if _, taken := assignment.CurrentFor(c.archivedIdx); taken {
			continue
		}
		assignment.add(c.currentIdx, c.archivedIdx, c.score)
	}
	return assignment
}

// assignOptimal runs the Hungarian algorithm on the similarity matrix padded
// to a square cost matrix, then drops assignments below the threshold. On
// inputs without near-ties it produces the same pairs as greedy.
func (m *Matcher) assignOptimal(matrix [][]float64) *Assignment {
	rows := len(matrix)
	cols := len(matrix[0])
	n := rows
	if cols > n {
		n = cols
	}

	// Minimization cost: 1 - similarity, with zero-similarity padding.
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			if i < rows && j < cols {
				cost[i][j] = 1.0 - matrix[i][j]
			} else {
				cost[i][j] = 1.0
			}
		}
	}

	rowForCol := hungarian(cost)

	assignment := newAssignment()
	for j, i := range rowForCol {
		if i >= rows || j >= cols {
			continue
		}
		if score := matrix[i][j]; score >= m.threshold {
			assignment.add(i, j, score)
		}
	}
	return assignment
}

// hungarian solves the square assignment problem by the potentials method in
// O(n^3) and returns, for each column, its assigned row.
func hungarian(cost [][]float64) []int {
	const inf = 1e18
	n := len(cost)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowForCol := make([]int, n)
	for j := 1; j <= n; j++ {
		rowForCol[j-1] = p[j] - 1
	}
	return rowForCol
}
