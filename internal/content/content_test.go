package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatic_NeverFails(t *testing.T) {
	s := NewStatic()
	ctx := context.Background()

	q, err := s.TriviaQuestion(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Question)
	assert.NotEmpty(t, q.Answer)

	w, err := s.DrawingWord(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, w.Word)
	assert.NotEmpty(t, w.Hint)

	cats, err := s.ListingCategories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cats)

	d, err := s.JudgingDeal(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, d.Prompt)
	assert.NotEmpty(t, d.Cards)
}

func TestStatic_CheckWord(t *testing.T) {
	s := NewStatic()
	ctx := context.Background()

	cases := []struct {
		name   string
		letter string
		word   string
		want   bool
	}{
		{name: "matching letter", letter: "A", word: "Apple", want: true},
		{name: "case folding", letter: "a", word: "APPLE", want: true},
		{name: "wrong letter", letter: "A", word: "Banana", want: false},
		{name: "leading space trimmed", letter: "A", word: "  apple", want: true},
		{name: "empty word", letter: "A", word: "", want: false},
		{name: "empty letter", letter: "", word: "Apple", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.CheckWord(ctx, "Foods", tc.letter, tc.word)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func contentServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/trivia", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"question":"Largest ocean?","answer":"Pacific","category":"Geography"}`))
	})
	mux.HandleFunc("/word", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"word":"lighthouse","difficulty":"medium","hint":"Warns ships at night"}`))
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"category":"Rivers","hint":"They flow"},{"category":"Tools","hint":"In a shed"}]`))
	})
	mux.HandleFunc("/judging", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prompt":"Never again: ___.","cards":["c1","c2"]}`))
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		valid := q.Get("category") == "Rivers" && q.Get("word") == "Rhine"
		if valid {
			w.Write([]byte(`{"valid":true}`))
			return
		}
		w.Write([]byte(`{"valid":false}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote(t *testing.T) {
	srv := contentServer(t)
	r := NewRemote(srv.URL)
	ctx := context.Background()

	q, err := r.TriviaQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, Question{Question: "Largest ocean?", Answer: "Pacific", Category: "Geography"}, q)

	w, err := r.DrawingWord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lighthouse", w.Word)

	cats, err := r.ListingCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, Category{Name: "Rivers", Hint: "They flow"}, cats[0])

	d, err := r.JudgingDeal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Never again: ___.", d.Prompt)

	ok, err := r.CheckWord(ctx, "Rivers", "R", "Rhine")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CheckWord(ctx, "Rivers", "R", "Danube")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewRemote(srv.URL)
	_, err := r.TriviaQuestion(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRemote_RejectsEmptyPayloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories":
			w.Write([]byte(`[]`))
		case "/judging":
			w.Write([]byte(`{"prompt":"","cards":[]}`))
		}
	}))
	t.Cleanup(srv.Close)

	r := NewRemote(srv.URL)
	_, err := r.ListingCategories(context.Background())
	require.Error(t, err)
	_, err = r.JudgingDeal(context.Background())
	require.Error(t, err)
}

type failingProvider struct{}

var errProviderDown = errors.New("provider down")

func (failingProvider) TriviaQuestion(context.Context) (Question, error) {
	return Question{}, errProviderDown
}
func (failingProvider) DrawingWord(context.Context) (Word, error) { return Word{}, errProviderDown }
func (failingProvider) ListingCategories(context.Context) ([]Category, error) {
	return nil, errProviderDown
}
func (failingProvider) JudgingDeal(context.Context) (Deal, error) { return Deal{}, errProviderDown }
func (failingProvider) CheckWord(context.Context, string, string, string) (bool, error) {
	return false, errProviderDown
}

func TestFallback_SubstitutesStatic(t *testing.T) {
	f := NewFallback(failingProvider{}, time.Second, zap.NewNop())
	ctx := context.Background()

	q, err := f.TriviaQuestion(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Question)

	w, err := f.DrawingWord(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, w.Word)

	cats, err := f.ListingCategories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cats)

	d, err := f.JudgingDeal(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, d.Prompt)

	ok, err := f.CheckWord(ctx, "Foods", "A", "Apple")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFallback_PassesThroughOnSuccess(t *testing.T) {
	srv := contentServer(t)
	f := NewFallback(NewRemote(srv.URL), time.Second, zap.NewNop())

	q, err := f.TriviaQuestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Largest ocean?", q.Question)
}

// A primary that hangs past the timeout still yields a static answer.
func TestFallback_TimesOutSlowPrimary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	f := NewFallback(NewRemote(srv.URL), 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	q, err := f.TriviaQuestion(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, q.Question)
	assert.Less(t, time.Since(start), time.Second)
}
