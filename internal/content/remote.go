package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Remote talks to a generative content service over HTTP. Every call is a
// GET returning a JSON document; the caller's context bounds the request.
type Remote struct {
	base   string
	client *http.Client
}

func NewRemote(base string) *Remote {
	return &Remote{base: base, client: &http.Client{}}
}

func (r *Remote) get(ctx context.Context, path string, query url.Values, out any) error {
	u := r.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content service: %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("content service: decode %s: %w", path, err)
	}
	return nil
}

func (r *Remote) TriviaQuestion(ctx context.Context) (Question, error) {
	var q Question
	err := r.get(ctx, "/trivia", nil, &q)
	return q, err
}

func (r *Remote) DrawingWord(ctx context.Context) (Word, error) {
	var w Word
	err := r.get(ctx, "/word", nil, &w)
	return w, err
}

func (r *Remote) ListingCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := r.get(ctx, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("content service: empty category set")
	}
	return cats, nil
}

func (r *Remote) JudgingDeal(ctx context.Context) (Deal, error) {
	var d Deal
	if err := r.get(ctx, "/judging", nil, &d); err != nil {
		return Deal{}, err
	}
	if d.Prompt == "" || len(d.Cards) == 0 {
		return Deal{}, fmt.Errorf("content service: incomplete deal")
	}
	return d, nil
}

func (r *Remote) CheckWord(ctx context.Context, category, letter, word string) (bool, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("letter", letter)
	q.Set("word", word)
	var res struct {
		Valid bool `json:"valid"`
	}
	if err := r.get(ctx, "/check", q, &res); err != nil {
		return false, err
	}
	return res.Valid, nil
}
