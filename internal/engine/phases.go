package engine

import (
	"math/rand"
	"unicode"
	"unicode/utf8"
)

// Advisory time limits in seconds, delivered in phase-start payloads.
// Enforcement is a client/scheduler concern, never the engine's.
const (
	TriviaTimeLimit  = 30
	DrawingTimeLimit = 60
	ListingTimeLimit = 90
	JudgingTimeLimit = 60
)

// MaskedWord is what everyone except the drawer sees.
const MaskedWord = "****"

// MaxCards is how many response cards a judging round deals out.
const MaxCards = 7

// Randomness hooks, overridable in tests.
var pickLetter = func() string {
	return string(rune('A' + rand.Intn(26)))
}

var pickIndex = func(n int) int {
	return rand.Intn(n)
}

var sampleCards = func(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

type TriviaContent struct {
	Question string
	Answer   string
	Category string
}

type ListingContent struct {
	Categories []Category
}

type JudgingContent struct {
	Prompt string
	Cards  []string
}

// ArmTrivia fills in phase data after a transition into Trivia and emits
// the phase-start broadcast. The round counter increments here, once per
// transition, after the advanced phase has been armed with content.
func ArmTrivia(s State, c TriviaContent) ([]Event, State) {
	ns := s
	ns.Round++
	ns.Data = &TriviaData{
		Question:  c.Question,
		Answer:    c.Answer,
		Category:  c.Category,
		TimeLimit: TriviaTimeLimit,
		Answers:   map[string]string{},
	}
	ev := Event{
		Type:      EvtPhaseStarted,
		Phase:     PhaseTrivia,
		Question:  c.Question,
		Category:  c.Category,
		TimeLimit: TriviaTimeLimit,
	}
	return []Event{ev}, ns
}

// ArmListing picks the round letter and fills in the category set.
func ArmListing(s State, c ListingContent) ([]Event, State) {
	ns := s
	ns.Round++
	letter := pickLetter()
	ns.Data = &ListingData{
		Letter:      letter,
		Categories:  c.Categories,
		TimeLimit:   ListingTimeLimit,
		Submissions: map[string][]string{},
	}
	ev := Event{
		Type:       EvtPhaseStarted,
		Phase:      PhaseListing,
		Letter:     letter,
		Categories: c.Categories,
		TimeLimit:  ListingTimeLimit,
	}
	return []Event{ev}, ns
}

// ArmJudging selects the judge and deals the card pool. The judge team is a
// pure function of the pre-increment round and team order; the judge is a
// uniformly random member of that team.
func ArmJudging(s State, c JudgingContent) ([]Event, State) {
	ns := s
	team := JudgeTeam(s)
	judge := team.Players[pickIndex(len(team.Players))].Name
	cards := sampleCards(c.Cards, MaxCards)
	ns.Round++
	ns.Data = &JudgingData{
		Prompt:      c.Prompt,
		Judge:       judge,
		Cards:       cards,
		TimeLimit:   JudgingTimeLimit,
		Submissions: map[string]string{},
	}
	ev := Event{
		Type:      EvtPhaseStarted,
		Phase:     PhaseJudging,
		Prompt:    c.Prompt,
		Judge:     judge,
		Cards:     cards,
		TimeLimit: JudgingTimeLimit,
	}
	return []Event{ev}, ns
}

// JudgeTeam returns teams[round mod teamCount] for the current round.
func JudgeTeam(s State) Team {
	return s.Teams[s.Round%len(s.Teams)]
}

// WordChecker reports whether word is a plausible member of category. The
// session actor wraps the content provider here; the engine never talks to
// it directly.
type WordChecker func(category, word string) bool

// FirstLetterCheck is the fallback checker: any word counts as long as the
// basic letter rule holds, which startsWith already enforced.
func FirstLetterCheck(category, word string) bool { return true }

// ResolveListing scores a closed listing round and transitions to Judging.
// Per category index, identities are walked in submission-arrival order; a
// lowercase-normalized word credits only its first submitter (+5 to that
// identity's team), so case-insensitive duplicates earn nothing.
func ResolveListing(s State, check WordChecker) ([]Event, State) {
	ld := s.Data.(*ListingData)
	ns := s
	for idx, cat := range ld.Categories {
		seen := map[string]bool{}
		for _, identity := range ld.Order {
			words := ld.Submissions[identity]
			if idx >= len(words) {
				continue
			}
			word := words[idx]
			if !validListingWord(word, ld.Letter) || !check(cat.Name, word) {
				continue
			}
			norm := normalize(word)
			if seen[norm] {
				continue
			}
			seen[norm] = true
			if team, ok := TeamOf(ns, identity); ok {
				ns = Credit(ns, team, ListingPoints)
			}
		}
	}
	ns.Phase = PhaseJudging
	ns.Data = nil
	events := []Event{
		{
			Type:   EvtListResult,
			Letter: ld.Letter,
			Lists:  copyLists(ld.Submissions),
			Scores: ScoresView(ns),
		},
		{Type: EvtPhaseAdvanced, Phase: PhaseJudging},
	}
	return events, ns
}

// RosterShrunk re-settles phase state after a roster removal. Submission
// barriers are only checked on submit, so a departure that brings the
// player count down to the submitter count must fire resolution here or
// it never fires. A departed buzz holder would block answering forever,
// and a judging round cannot resolve without a judge; both are repaired.
func RosterShrunk(s State) []Event {
	switch d := s.Data.(type) {
	case *TriviaData:
		if d.BuzzHolder != "" {
			if _, ok := TeamOf(s, d.BuzzHolder); !ok {
				d.BuzzHolder = ""
			}
		}

	case *ListingData:
		if !d.Closed && len(d.Submissions) >= TotalPlayers(s) {
			d.Closed = true
			return []Event{{Type: EvtListingClosed}}
		}

	case *JudgingData:
		var events []Event
		if _, ok := TeamOf(s, d.Judge); !ok {
			// The seat passes to the rotation team under the current
			// roster; a card the new judge played is withdrawn.
			team := s.Teams[(s.Round-1)%len(s.Teams)]
			d.Judge = team.Players[pickIndex(len(team.Players))].Name
			delete(d.Submissions, d.Judge)
			events = append(events, Event{Type: EvtJudgeChanged, Judge: d.Judge})
		}
		if !d.VotingOpen && len(d.Submissions) > 0 && len(d.Submissions) >= TotalPlayers(s)-1 {
			d.VotingOpen = true
			events = append(events, Event{
				Type:        EvtVotingOpened,
				Prompt:      d.Prompt,
				Submissions: copySubmissions(d.Submissions),
			})
		}
		return events
	}
	return nil
}

func validListingWord(word, letter string) bool {
	if word == "" || utf8.RuneCountInString(word) < 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	want, _ := utf8.DecodeRuneInString(letter)
	return unicode.ToUpper(first) == unicode.ToUpper(want)
}

func copyLists(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}
