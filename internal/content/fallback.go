package content

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fallback bounds every primary call with a timeout and substitutes the
// static value when the primary fails. Provider failure never reaches the
// game core or the players.
type Fallback struct {
	primary Provider
	static  *Static
	timeout time.Duration
	log     *zap.Logger
}

func NewFallback(primary Provider, timeout time.Duration, log *zap.Logger) *Fallback {
	return &Fallback{primary: primary, static: NewStatic(), timeout: timeout, log: log}
}

func (f *Fallback) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.timeout)
}

func (f *Fallback) TriviaQuestion(ctx context.Context) (Question, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()
	q, err := f.primary.TriviaQuestion(ctx)
	if err != nil {
		f.log.Warn("trivia content fallback", zap.Error(err))
		return f.static.TriviaQuestion(ctx)
	}
	return q, nil
}

func (f *Fallback) DrawingWord(ctx context.Context) (Word, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()
	w, err := f.primary.DrawingWord(ctx)
	if err != nil {
		f.log.Warn("drawing content fallback", zap.Error(err))
		return f.static.DrawingWord(ctx)
	}
	return w, nil
}

func (f *Fallback) ListingCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()
	cats, err := f.primary.ListingCategories(ctx)
	if err != nil {
		f.log.Warn("listing content fallback", zap.Error(err))
		return f.static.ListingCategories(ctx)
	}
	return cats, nil
}

func (f *Fallback) JudgingDeal(ctx context.Context) (Deal, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()
	d, err := f.primary.JudgingDeal(ctx)
	if err != nil {
		f.log.Warn("judging content fallback", zap.Error(err))
		return f.static.JudgingDeal(ctx)
	}
	return d, nil
}

func (f *Fallback) CheckWord(ctx context.Context, category, letter, word string) (bool, error) {
	ctx, cancel := f.bound(ctx)
	defer cancel()
	ok, err := f.primary.CheckWord(ctx, category, letter, word)
	if err != nil {
		f.log.Warn("word check fallback", zap.Error(err), zap.String("category", category))
		return f.static.CheckWord(ctx, category, letter, word)
	}
	return ok, nil
}
