package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/client/debounce"
	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
)

const (
	DefaultSearchDebounce = 300 * time.Millisecond
	searchRetry           = 1
)

// SearchResult is the outcome of one settled search term.
type SearchResult struct {
	Term string
	query.Result[[]models.Ingredient]
}

// SearchBox is the ingredient picker: input is recorded immediately, the
// search runs once the input has been quiet for the debounce interval.
// An empty term never reaches the server.
type SearchBox struct {
	sess     *session.Session
	ctx      context.Context
	cancel   context.CancelFunc
	debounce *debounce.Debouncer[string]
	results  chan SearchResult

	mu      sync.Mutex
	pending string
	term    string
	closed  bool
}

// NewSearchBox starts a search box. Results are delivered on Results until
// Close is called; a result nobody reads is replaced by the next one.
func NewSearchBox(ctx context.Context, sess *session.Session, interval time.Duration) *SearchBox {
	if interval <= 0 {
		interval = DefaultSearchDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	b := &SearchBox{
		sess:    sess,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan SearchResult, 1),
	}
	b.debounce = debounce.New(interval, b.settle)
	return b
}

// Input records the current text of the box.
func (b *SearchBox) Input(text string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = text
	b.mu.Unlock()
	b.debounce.Trigger(text)
}

// Pending is the text as typed.
func (b *SearchBox) Pending() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Term is the text the last search ran for.
func (b *SearchBox) Term() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term
}

func (b *SearchBox) Results() <-chan SearchResult { return b.results }

func (b *SearchBox) settle(term string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.term = term
	b.mu.Unlock()

	r := query.Get(b.ctx, b.sess.Cache, SearchIngredientsKey(term), func(ctx context.Context) ([]models.Ingredient, error) {
		return b.sess.API.ListIngredients(b.sess.Authorized(ctx), term)
	}, query.Options{Enabled: query.Bool(term != ""), Retry: searchRetry})

	b.deliver(SearchResult{Term: term, Result: r})
}

func (b *SearchBox) deliver(r SearchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.results <- r:
		return
	default:
	}
	select {
	case <-b.results:
	default:
	}
	b.results <- r
}

// Close cancels the pending search and stops delivering results.
func (b *SearchBox) Close() {
	b.debounce.Stop()
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.results)
}
