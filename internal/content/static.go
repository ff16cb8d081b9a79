package content

import (
	"context"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

var staticQuestions = []Question{
	{Question: "What is the capital of France?", Answer: "Paris", Category: "Geography"},
	{Question: "What gas do plants primarily use for photosynthesis?", Answer: "Carbon Dioxide", Category: "Science"},
	{Question: "Who painted the Mona Lisa?", Answer: "Leonardo da Vinci", Category: "Art"},
	{Question: "What is 2 + 2?", Answer: "4", Category: "Math"},
	{Question: "Which planet is known as the Red Planet?", Answer: "Mars", Category: "Space"},
}

var staticWords = []Word{
	{Word: "cat", Difficulty: "easy", Hint: "A household animal"},
	{Word: "house", Difficulty: "easy", Hint: "You live in one"},
	{Word: "dragon", Difficulty: "hard", Hint: "A fire-breathing legend"},
	{Word: "spaceship", Difficulty: "medium", Hint: "It leaves the planet"},
	{Word: "pizza", Difficulty: "easy", Hint: "Delivered in a flat box"},
}

var staticCategories = []Category{
	{Name: "Animals", Hint: "Creatures in the wild or at home"},
	{Name: "Foods", Hint: "Things you eat or drink"},
	{Name: "Cities", Hint: "Places with a mayor"},
	{Name: "Sports", Hint: "Activities requiring physical skill"},
	{Name: "Movies", Hint: "Films you watch on screen"},
}

var staticPrompts = []string{
	"In retrospect, ___ was a terrible idea.",
	"The secret to ___ is ___.",
	"Why did I wake up with ___?",
	"___: the ultimate party foul.",
}

var staticCards = []string{
	"a screaming toddler", "too much coffee", "a rogue clown", "spilled wine",
	"an alien invasion", "a broken chair", "uncontrollable dancing", "a lost sock",
	"a bad haircut", "unexpected karaoke",
}

// Static serves deterministic built-in content. It never fails, which is
// what makes it usable as the fallback of last resort.
type Static struct{}

func NewStatic() *Static { return &Static{} }

func (*Static) TriviaQuestion(context.Context) (Question, error) {
	return staticQuestions[rand.Intn(len(staticQuestions))], nil
}

func (*Static) DrawingWord(context.Context) (Word, error) {
	return staticWords[rand.Intn(len(staticWords))], nil
}

func (*Static) ListingCategories(context.Context) ([]Category, error) {
	return append([]Category(nil), staticCategories...), nil
}

func (*Static) JudgingDeal(context.Context) (Deal, error) {
	return Deal{
		Prompt: staticPrompts[rand.Intn(len(staticPrompts))],
		Cards:  append([]string(nil), staticCards...),
	}, nil
}

// CheckWord falls back to the letter rule: the word counts whenever its
// first rune matches the round letter.
func (*Static) CheckWord(_ context.Context, _, letter, word string) (bool, error) {
	if word == "" || letter == "" {
		return false, nil
	}
	first, _ := utf8.DecodeRuneInString(strings.TrimSpace(word))
	want, _ := utf8.DecodeRuneInString(letter)
	return unicode.ToUpper(first) == unicode.ToUpper(want), nil
}
