package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/podscout/podscout/internal/domain"
	"github.com/podscout/podscout/internal/log"
)

type fakeResolver struct {
	calls   atomic.Int64
	resolve func(ctx context.Context, sourceURL string) (*domain.StreamInfo, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, sourceURL string) (*domain.StreamInfo, error) {
	f.calls.Add(1)
	if f.resolve == nil {
		return nil, nil
	}
	return f.resolve(ctx, sourceURL)
}

func sourced(eps []*domain.Episode) []*domain.Episode {
	for _, ep := range eps {
		ep.SourceURL = "https://youtube.com/watch?v=x"
	}
	return eps
}

func TestEnricher_AppliesBothFields(t *testing.T) {
	cache := NewCache()
	eps := sourced(makeEpisodes(1, 1))
	cache.Replace("All", eps, 20, true)

	resolver := &fakeResolver{resolve: func(context.Context, string) (*domain.StreamInfo, error) {
		return &domain.StreamInfo{StreamURL: "https://cdn/s", ThumbnailURL: "https://cdn/t"}, nil
	}}
	e := NewEnricher(resolver, cache, 2, log.NullLogger())

	e.Enrich(eps[0])
	e.Wait()

	state, _ := cache.Feed("All")
	if !state.Items[0].Enriched() {
		t.Error("episode not enriched")
	}
	if state.Items[0].StreamURL != "https://cdn/s" || state.Items[0].ThumbnailURL != "https://cdn/t" {
		t.Errorf("wrong enrichment values: %+v", state.Items[0])
	}
}

func TestEnricher_AllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		info *domain.StreamInfo
		err  error
	}{
		{"missing thumbnail", &domain.StreamInfo{StreamURL: "https://cdn/s"}, nil},
		{"missing stream", &domain.StreamInfo{ThumbnailURL: "https://cdn/t"}, nil},
		{"resolver error", nil, errors.New("boom")},
		{"nil result", nil, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cache := NewCache()
			eps := sourced(makeEpisodes(1, 1))
			cache.Replace("All", eps, 20, true)

			resolver := &fakeResolver{resolve: func(context.Context, string) (*domain.StreamInfo, error) {
				return test.info, test.err
			}}
			e := NewEnricher(resolver, cache, 2, log.NullLogger())

			e.Enrich(eps[0])
			e.Wait()

			state, _ := cache.Feed("All")
			if state.Items[0].StreamURL != "" || state.Items[0].ThumbnailURL != "" {
				t.Errorf("partial enrichment applied: %+v", state.Items[0])
			}
		})
	}
}

func TestEnricher_SkipsEpisodesWithoutSource(t *testing.T) {
	cache := NewCache()
	eps := makeEpisodes(1, 1) // no SourceURL
	cache.Replace("All", eps, 20, true)

	resolver := &fakeResolver{}
	e := NewEnricher(resolver, cache, 2, log.NullLogger())

	e.Enrich(eps[0])
	e.Wait()

	if resolver.calls.Load() != 0 {
		t.Errorf("resolver called %d times for an episode without a source", resolver.calls.Load())
	}
}

func TestEnricher_CompletionAfterInvalidationIsDropped(t *testing.T) {
	cache := NewCache()
	eps := sourced(makeEpisodes(1, 1))
	cache.Replace("All", eps, 20, true)

	release := make(chan struct{})
	resolver := &fakeResolver{resolve: func(context.Context, string) (*domain.StreamInfo, error) {
		<-release
		return &domain.StreamInfo{StreamURL: "https://cdn/s", ThumbnailURL: "https://cdn/t"}, nil
	}}
	e := NewEnricher(resolver, cache, 2, log.NullLogger())

	e.Enrich(eps[0])
	cache.Invalidate("All")
	close(release)
	e.Wait()

	if _, ok := cache.Feed("All"); ok {
		t.Error("stale completion resurrected an invalidated category")
	}
}

func TestEnricher_BoundsConcurrency(t *testing.T) {
	cache := NewCache()
	eps := sourced(makeEpisodes(1, 10))
	cache.Replace("All", eps, 20, true)

	var inFlight, peak atomic.Int64
	resolver := &fakeResolver{resolve: func(context.Context, string) (*domain.StreamInfo, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer inFlight.Add(-1)
		return nil, nil
	}}
	e := NewEnricher(resolver, cache, 3, log.NullLogger())

	for _, ep := range eps {
		e.Enrich(ep)
	}
	e.Wait()

	if got := peak.Load(); got > 3 {
		t.Errorf("observed %d concurrent resolutions, limit is 3", got)
	}
	if resolver.calls.Load() != 10 {
		t.Errorf("expected 10 resolver calls, got %d", resolver.calls.Load())
	}
}
