package compare

// Assignment is a partial injective mapping between current and archived
// record indices. Both directions are stored so the symmetric invariant
// (A->B implies B->A) holds by construction.
type Assignment struct {
	currentToArchived map[int]int
	archivedToCurrent map[int]int
	scores            map[int]float64 // keyed by archived index
}

func newAssignment() *Assignment {
	return &Assignment{
		currentToArchived: make(map[int]int),
		archivedToCurrent: make(map[int]int),
		scores:            make(map[int]float64),
	}
}

func (a *Assignment) add(currentIdx, archivedIdx int, score float64) {
	a.currentToArchived[currentIdx] = archivedIdx
	a.archivedToCurrent[archivedIdx] = currentIdx
	a.scores[archivedIdx] = score
}

// Len is the number of matched pairs.
func (a *Assignment) Len() int { return len(a.currentToArchived) }

// ArchivedFor returns the archived index matched to a current record.
func (a *Assignment) ArchivedFor(currentIdx int) (int, bool) {
	j, ok := a.currentToArchived[currentIdx]
	return j, ok
}

// CurrentFor returns the current index matched to an archived record.
func (a *Assignment) CurrentFor(archivedIdx int) (int, bool) {
	i, ok := a.archivedToCurrent[archivedIdx]
	return i, ok
}

// Score returns the similarity that produced the match for an archived record.
func (a *Assignment) Score(archivedIdx int) float64 {
	return a.scores[archivedIdx]
}
