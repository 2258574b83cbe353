package state

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/youruser/frycards/internal/util"
)

// FetchFunc warms one asset.
type FetchFunc func(ctx context.Context, url string) error

// FetchHTTP downloads url and discards the body.
func FetchHTTP(ctx context.Context, url string) error {
	_, err := util.GetBytes(ctx, url)
	return err
}

// Preloader remembers which asset URLs were requested so each one is
// fetched at most once per session, failed or not.
type Preloader struct {
	fetch FetchFunc
	limit int

	// pub serializes publishing so subscribers see counts in order
	pub sync.Mutex

	mu      sync.Mutex
	seen    map[string]bool
	settled map[string]bool
	changed *Value[int]
}

func NewPreloader(fetch FetchFunc, limit int) *Preloader {
	if fetch == nil {
		fetch = FetchHTTP
	}
	if limit <= 0 {
		limit = 6
	}
	return &Preloader{
		fetch:   fetch,
		limit:   limit,
		seen:    map[string]bool{},
		settled: map[string]bool{},
		changed: NewValue(0),
	}
}

// Preload fetches the URLs not requested before and returns the first
// fetch error once every fetch has settled. Empty URLs are ignored.
func (p *Preloader) Preload(ctx context.Context, urls []string) error {
	var g errgroup.Group
	g.SetLimit(p.limit)
	for _, u := range urls {
		if u == "" || !p.claim(u) {
			continue
		}
		g.Go(func() error {
			err := p.fetch(ctx, u)
			p.settle(u)
			return err
		})
	}
	return g.Wait()
}

func (p *Preloader) claim(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen[url] {
		return false
	}
	p.seen[url] = true
	return true
}

func (p *Preloader) settle(url string) {
	p.pub.Lock()
	defer p.pub.Unlock()
	p.mu.Lock()
	p.settled[url] = true
	n := len(p.settled)
	p.mu.Unlock()
	p.changed.Set(n)
}

// Loaded reports whether url has finished loading.
func (p *Preloader) Loaded(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled[url]
}

// Progress returns the percentage of urls that have settled, rounded.
// An empty list is fully loaded.
func (p *Preloader) Progress(urls []string) int {
	if len(urls) == 0 {
		return 100
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	done := 0
	for _, u := range urls {
		if u == "" || p.settled[u] {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(urls)) * 100))
}

// Subscribe is called with the number of settled assets whenever one
// settles. Counts are delivered in increasing order. fn may call Loaded
// and Progress but must not block.
func (p *Preloader) Subscribe(fn func(int)) func() {
	return p.changed.Subscribe(fn)
}
