package spelling

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/shartnoma/internal/cache"
	"github.com/ppiankov/shartnoma/internal/model"
)

func newSpellServer(t *testing.T, handler func(w http.ResponseWriter, req spellRequest)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/spell", r.URL.Path)

		var req spellRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeVerdict(w http.ResponseWriter, req spellRequest, correct bool, suggestions ...string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(spellResponse{
		Word:        req.Word,
		Script:      req.Script,
		Correct:     correct,
		Suggestions: suggestions,
	})
}

func TestHTTPBackend_Check(t *testing.T) {
	var scripts []string
	srv, calls := newSpellServer(t, func(w http.ResponseWriter, req spellRequest) {
		scripts = append(scripts, req.Script)
		if req.Word == "shartnomma" || req.Word == "шартномма" {
			writeVerdict(w, req, false, "shartnoma", "shartnomaga")
			return
		}
		writeVerdict(w, req, true)
	})

	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL + "/"})
	ctx := context.Background()

	v, err := b.Check(ctx, "shartnomma", model.LangUzLatin)
	require.NoError(t, err)
	assert.Equal(t, Verdict{Correct: false, Suggestion: "shartnoma"}, v)

	v, err = b.Check(ctx, "kafolat", model.LangUzLatin)
	require.NoError(t, err)
	assert.True(t, v.Correct)

	_, err = b.Check(ctx, "шартномма", model.LangUzCyrillic)
	require.NoError(t, err)

	v, err = b.Check(ctx, "договор", model.LangRussian)
	require.NoError(t, err)
	assert.True(t, v.Correct)

	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []string{"latin", "latin", "cyrillic"}, scripts)
}

func TestHTTPBackend_Cache(t *testing.T) {
	srv, calls := newSpellServer(t, func(w http.ResponseWriter, req spellRequest) {
		writeVerdict(w, req, false, "shartnoma")
	})

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL}, WithCache(c, 0))

	for i := 0; i < 3; i++ {
		v, err := b.Check(context.Background(), "shartnomma", model.LangUzLatin)
		require.NoError(t, err)
		assert.Equal(t, "shartnoma", v.Suggestion)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, 1, c.Len())
}

func TestHTTPBackend_RetriesTransientFailures(t *testing.T) {
	var attempts int32
	srv, _ := newSpellServer(t, func(w http.ResponseWriter, req spellRequest) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeVerdict(w, req, true)
	})

	var slept []time.Duration
	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL},
		withSleep(func(d time.Duration) { slept = append(slept, d) }))

	v, err := b.Check(context.Background(), "kafolat", model.LangUzLatin)
	require.NoError(t, err)
	assert.True(t, v.Correct)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}, slept)
}

func TestHTTPBackend_GivesUpAfterMaxRetries(t *testing.T) {
	srv, calls := newSpellServer(t, func(w http.ResponseWriter, _ spellRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL}, withSleep(func(time.Duration) {}))

	_, err := b.Check(context.Background(), "kafolat", model.LangUzLatin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(httpMaxRetries), atomic.LoadInt32(calls))
}

func TestHTTPBackend_ClientErrorIsNotRetried(t *testing.T) {
	srv, calls := newSpellServer(t, func(w http.ResponseWriter, _ spellRequest) {
		w.WriteHeader(http.StatusBadRequest)
	})
	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL}, withSleep(func(time.Duration) {}))

	_, err := b.Check(context.Background(), "kafolat", model.LangUzLatin)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestHTTPBackend_Disabled(t *testing.T) {
	b := NewHTTPBackend(model.SpellingConfig{})
	assert.Nil(t, b)

	v, err := b.Check(context.Background(), "shartnomma", model.LangUzLatin)
	require.NoError(t, err)
	assert.True(t, v.Correct)
}

func TestHTTPBackend_WithChecker(t *testing.T) {
	srv, _ := newSpellServer(t, func(w http.ResponseWriter, req spellRequest) {
		if req.Word == "bajarlishi" {
			writeVerdict(w, req, false, "bajarilishi")
			return
		}
		writeVerdict(w, req, true)
	})
	b := NewHTTPBackend(model.SpellingConfig{BackendURL: srv.URL})

	e := only(t, NewChecker(WithBackend(b)).Check("ishlarning bajarlishi", model.LangUzLatin))
	assert.Equal(t, "bajarilishi", e.Suggestion)
	assert.Equal(t, model.SpellTypo, e.Kind)
}

func TestChain(t *testing.T) {
	failing := &fakeBackend{err: errors.New("down")}
	silent := &fakeBackend{}
	flagging := &fakeBackend{suggestions: map[string]string{"shartnomma": "shartnoma"}}

	chain := NewChain(nil, failing, nil, silent, flagging)
	assert.Equal(t, 3, chain.Len())

	v, err := chain.Check(context.Background(), "shartnomma", model.LangUzLatin)
	require.NoError(t, err)
	assert.Equal(t, "shartnoma", v.Suggestion)
	assert.Equal(t, []string{"shartnomma"}, silent.calls)

	v, err = chain.Check(context.Background(), "kafolat", model.LangUzLatin)
	require.NoError(t, err)
	assert.True(t, v.Correct)
}
