// Package content supplies phase content for running sessions: trivia
// questions, drawable words, listing categories, and judging prompts and
// cards. Providers are fallible external collaborators; the Fallback
// decorator guarantees the game core always gets an answer.
package content

import "context"

type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type Word struct {
	Word       string `json:"word"`
	Difficulty string `json:"difficulty"`
	Hint       string `json:"hint"`
}

type Category struct {
	Name string `json:"category"`
	Hint string `json:"hint"`
}

// Deal is a judging prompt plus the response-card pool it is played with.
type Deal struct {
	Prompt string   `json:"prompt"`
	Cards  []string `json:"cards"`
}

type Provider interface {
	TriviaQuestion(ctx context.Context) (Question, error)
	DrawingWord(ctx context.Context) (Word, error)
	ListingCategories(ctx context.Context) ([]Category, error)
	JudgingDeal(ctx context.Context) (Deal, error)
	// CheckWord reports whether word plausibly belongs to category for
	// a round played on letter.
	CheckWord(ctx context.Context, category, letter, word string) (bool, error)
}
