package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"modpack-launcher/modrinth"
)

type searchCall struct {
	query  string
	facets [][]string
	index  string
	offset int
	limit  int
}

type fakeSearcher struct {
	mu         sync.Mutex
	calls      []searchCall
	resp       *modrinth.SearchResponse
	err        error
	firstDelay time.Duration
	callCount  int32
}

func (f *fakeSearcher) SearchProjects(query string, facets [][]string, index string, offset, limit int) (*modrinth.SearchResponse, error) {
	if atomic.AddInt32(&f.callCount, 1) == 1 && f.firstDelay > 0 {
		time.Sleep(f.firstDelay)
	}
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, facets: facets, index: index, offset: offset, limit: limit})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &modrinth.SearchResponse{}, nil
}

func (f *fakeSearcher) recorded() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]searchCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type searchResult struct {
	page SearchPage
	err  error
}

func newTestCoordinator(projectType string, searcher Searcher) (*SearchCoordinator, chan searchResult) {
	results := make(chan searchResult, 10)
	c := NewSearchCoordinator(projectType, searcher, func(page SearchPage, err error) {
		results <- searchResult{page: page, err: err}
	})
	c.debounce = 30 * time.Millisecond
	return c, results
}

func waitResult(t *testing.T, results chan searchResult) searchResult {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a search result")
		return searchResult{}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		totalHits int
		want      int
	}{
		{0, 0},
		{1, 1},
		{19, 1},
		{20, 1},
		{21, 2},
		{100, 5},
		{101, 6},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.totalHits); got != tt.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tt.totalHits, got, tt.want)
		}
	}
}

func TestShowPagination(t *testing.T) {
	if (SearchPage{TotalHits: 20}).ShowPagination() {
		t.Error("pagination should be hidden with exactly one page of hits")
	}
	if !(SearchPage{TotalHits: 21}).ShowPagination() {
		t.Error("pagination should be visible with more than one page of hits")
	}
}

func TestSetQueryDebounceCoalesces(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	c.SetQuery("s")
	c.SetQuery("so")
	c.SetQuery("sodium")

	r := waitResult(t, results)
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}

	calls := searcher.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected 1 search for 3 rapid edits, got %d", len(calls))
	}
	if calls[0].query != "sodium" {
		t.Errorf("search carried query %q, want final value %q", calls[0].query, "sodium")
	}
	if calls[0].index != modrinth.IndexRelevance {
		t.Errorf("non-empty query used index %q, want %q", calls[0].index, modrinth.IndexRelevance)
	}
	if calls[0].offset != 0 || calls[0].limit != pageSize {
		t.Errorf("expected page 1 (offset 0, limit %d), got offset %d limit %d", pageSize, calls[0].offset, calls[0].limit)
	}
	if r.page.Page != 1 {
		t.Errorf("result page = %d, want 1", r.page.Page)
	}
}

func TestEmptyQueryUsesDownloadsIndex(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	c.Refresh()
	waitResult(t, results)

	calls := searcher.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected 1 search, got %d", len(calls))
	}
	if calls[0].index != modrinth.IndexDownloads {
		t.Errorf("empty query used index %q, want %q", calls[0].index, modrinth.IndexDownloads)
	}
}

func TestFacetsCarryTypeAndVersion(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("mod", searcher)
	defer c.Close()

	c.SetVersionFilter("1.20.4")
	waitResult(t, results)

	calls := searcher.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected 1 search, got %d", len(calls))
	}
	facets := calls[0].facets
	if len(facets) != 2 {
		t.Fatalf("expected 2 facet groups, got %v", facets)
	}
	if facets[0][0] != "project_type:mod" {
		t.Errorf("first facet = %q, want project_type:mod", facets[0][0])
	}
	if facets[1][0] != "versions:1.20.4" {
		t.Errorf("second facet = %q, want versions:1.20.4", facets[1][0])
	}
}

func TestSetPageFiresImmediately(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	// Pending debounced edit must be superseded by the page change
	c.SetQuery("sodium")
	c.SetPage(3)
	r := waitResult(t, results)

	if r.page.Page != 3 {
		t.Errorf("result page = %d, want 3", r.page.Page)
	}
	calls := searcher.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected the page change to cancel the pending search, got %d calls", len(calls))
	}
	if calls[0].offset != 2*pageSize {
		t.Errorf("page 3 offset = %d, want %d", calls[0].offset, 2*pageSize)
	}

	// Pending debounce timer should not fire a second search afterwards
	time.Sleep(100 * time.Millisecond)
	if got := len(searcher.recorded()); got != 1 {
		t.Errorf("expected no further searches, got %d total", got)
	}
}

func TestSetPageClampsToOne(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	c.SetPage(0)
	r := waitResult(t, results)
	if r.page.Page != 1 {
		t.Errorf("page = %d, want clamp to 1", r.page.Page)
	}
}

func TestSearchErrorDelivered(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("registry unavailable")}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	c.SetQuery("sodium")
	r := waitResult(t, results)
	if r.err == nil {
		t.Fatal("expected the search error to reach the result callback")
	}
	if len(r.page.Hits) != 0 {
		t.Errorf("error result carried %d hits, want none", len(r.page.Hits))
	}
	if r.page.Query != "sodium" {
		t.Errorf("error result query = %q, want %q", r.page.Query, "sodium")
	}
}

func TestStaleResponseDropped(t *testing.T) {
	searcher := &fakeSearcher{firstDelay: 150 * time.Millisecond}
	c, results := newTestCoordinator("modpack", searcher)
	defer c.Close()

	c.SetPage(1) // slow request
	time.Sleep(20 * time.Millisecond)
	c.SetPage(2) // supersedes it

	r := waitResult(t, results)
	if r.page.Page != 2 {
		t.Errorf("delivered page = %d, want only the newer request's page 2", r.page.Page)
	}

	// The slow response must be discarded, not delivered late
	select {
	case r := <-results:
		t.Errorf("stale response was delivered: page %d", r.page.Page)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCloseCancelsPendingSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	c, results := newTestCoordinator("modpack", searcher)

	c.SetQuery("sodium")
	c.Close()

	select {
	case r := <-results:
		t.Errorf("search fired after Close: %+v", r.page)
	case <-time.After(150 * time.Millisecond):
	}
	if got := len(searcher.recorded()); got != 0 {
		t.Errorf("expected no searches after Close, got %d", got)
	}
}
