package engine

// Point values are fixed per phase.
const (
	TriviaPoints  = 10
	DrawingPoints = 15
	ListingPoints = 5 // per credited word
	JudgingPoints = 20
)

// Credit adds delta to a team's score. Scores only ever grow; a
// non-positive delta is a no-op.
func Credit(s State, team string, delta int) State {
	if delta <= 0 {
		return s
	}
	ns := s
	ns.Scores = make(map[string]int, len(s.Scores))
	for k, v := range s.Scores {
		ns.Scores[k] = v
	}
	ns.Scores[team] += delta
	return ns
}

// ScoresView returns the scoreboard with every live team present,
// implicitly zero when a team has not scored yet.
func ScoresView(s State) map[string]int {
	out := make(map[string]int, len(s.Teams))
	for _, t := range s.Teams {
		out[t.Name] = s.Scores[t.Name]
	}
	return out
}
