package domain

type MoveOperation struct {
	Source string
	Target string
}

// MovePlan is the validated, conflict-free set of moves for one batch.
type MovePlan struct {
	Operations []MoveOperation
}

func (p MovePlan) Len() int {
	return len(p.Operations)
}
