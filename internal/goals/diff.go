package goals

// Diff is the change between the known goals and a newer poll.
type Diff struct {
	Added   []Goal
	Removed []Goal
}

// Empty reports whether the poll changed nothing.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Compare keys both sets by event id. Added holds candidates unknown before,
// Removed holds known goals missing from the candidate set (overturned).
// Both are ordered by event id.
func Compare(known, candidate Set) Diff {
	var d Diff
	for _, id := range candidate.IDs() {
		if _, ok := known[id]; !ok {
			d.Added = append(d.Added, candidate[id])
		}
	}
	for _, id := range known.IDs() {
		if _, ok := candidate[id]; !ok {
			d.Removed = append(d.Removed, known[id])
		}
	}
	return d
}
