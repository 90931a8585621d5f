package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure SearchIndex implements the interface.
var _ driving.SearchService = (*SearchIndex)(nil)

// Relevance weights per query token.
const (
	titleMatchScore  = 3
	titlePrefixScore = 2
	textMatchScore   = 1
)

// HealthStatusOK is reported while the process serves requests.
const HealthStatusOK = "ok"

// scoredDocument holds a candidate before pagination.
type scoredDocument struct {
	doc       domain.IndexedDocument
	relevance int
}

// SearchIndex is an in-memory inverted index over published documents.
// Readers always see a complete snapshot; writers build a new snapshot
// and publish it with a single pointer swap.
type SearchIndex struct {
	source  driven.ContentSource
	current atomic.Pointer[indexSnapshot]
	mu      sync.Mutex // serialises writers
	rebuild singleflight.Group
	now     func() time.Time
}

// NewSearchIndex creates an empty search index fed by source.
func NewSearchIndex(source driven.ContentSource) *SearchIndex {
	s := &SearchIndex{
		source: source,
		now:    time.Now,
	}
	s.current.Store(emptySnapshot())
	return s
}

// IndexDocument (re)indexes a single document. Any previous version of the
// document is removed from the index first.
func (s *SearchIndex) IndexDocument(doc domain.ContentDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	b := snap.edit()
	b.index(domain.NewIndexedDocument(doc))
	s.current.Store(b.build(snap.lastIndexed))
}

// BuildFullIndex replaces the index with every published document.
// On fetch failure the current index is kept and the error returned.
// Concurrent calls share a single rebuild.
func (s *SearchIndex) BuildFullIndex(ctx context.Context) error {
	_, err, _ := s.rebuild.Do("full", func() (any, error) {
		return nil, s.buildFullIndex(ctx)
	})
	return err
}

func (s *SearchIndex) buildFullIndex(ctx context.Context) error {
	logger.Section("Full Index Build")

	docs, err := s.source.ListPublished(ctx)
	if err != nil {
		logger.Warn("search: full rebuild failed, keeping previous index: %v", err)
		return fmt.Errorf("fetching published content: %w", err)
	}
	fetched := s.now()

	b := newBuilder()
	for _, doc := range docs {
		if !doc.IsPublished() {
			continue
		}
		b.index(domain.NewIndexedDocument(doc))
	}
	snap := b.build(fetched)

	s.mu.Lock()
	s.current.Store(snap)
	s.mu.Unlock()

	logger.Info("search: indexed %d documents (%d tokens)", len(snap.docs), len(snap.tokens))
	return nil
}

// IncrementalUpdate re-indexes published documents changed since the last
// pass and returns how many were indexed. Without a prior build it runs a
// full build instead. Documents that were unpublished stay indexed until
// the next full build.
func (s *SearchIndex) IncrementalUpdate(ctx context.Context) (int, error) {
	if s.current.Load().lastIndexed.IsZero() {
		if err := s.BuildFullIndex(ctx); err != nil {
			return 0, err
		}
		return s.Health().DocumentCount, nil
	}

	docs, err := s.source.ListAll(ctx)
	if err != nil {
		logger.Warn("search: incremental update failed, keeping previous index: %v", err)
		return 0, fmt.Errorf("fetching content: %w", err)
	}
	fetched := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	var b *indexBuilder
	count := 0
	for _, doc := range docs {
		if !doc.IsPublished() || !doc.UpdatedAt.After(snap.lastIndexed) {
			continue
		}
		if b == nil {
			b = snap.edit()
		}
		b.index(domain.NewIndexedDocument(doc))
		count++
	}

	if b == nil {
		next := *snap
		next.lastIndexed = fetched
		s.current.Store(&next)
	} else {
		s.current.Store(b.build(fetched))
	}

	logger.Debug("search: incremental update indexed %d of %d documents", count, len(docs))
	return count, nil
}

// Search returns one page of documents containing every query token,
// ranked by relevance.
func (s *SearchIndex) Search(_ context.Context, query domain.SearchQuery) (domain.SearchPage, error) {
	query = query.Normalised()
	page := domain.SearchPage{
		Results:  []domain.SearchResult{},
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	queryTokens := Tokenize(query.Query)
	tokens := uniqueTokens(query.Query)
	if len(tokens) == 0 {
		return page, nil
	}

	snap := s.current.Load()
	sets := make([]*roaring.Bitmap, 0, len(tokens))
	for _, token := range tokens {
		bm, ok := snap.tokens[token]
		if !ok {
			return page, nil
		}
		sets = append(sets, bm)
	}
	candidates := roaring.FastAnd(sets...)

	scored := make([]scoredDocument, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		doc := snap.docs[it.Next()]
		if query.Type != "" && doc.Type != query.Type {
			continue
		}
		if r := relevance(doc, queryTokens); r > 0 {
			scored = append(scored, scoredDocument{doc: doc, relevance: r})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].relevance != scored[j].relevance {
			return scored[i].relevance > scored[j].relevance
		}
		return scored[i].doc.ID < scored[j].doc.ID
	})

	page.Total = len(scored)
	page.TotalPages = (page.Total + query.PageSize - 1) / query.PageSize

	// Checked before multiplying so a huge page number cannot overflow
	if query.Page-1 >= page.TotalPages {
		return page, nil
	}
	start := (query.Page - 1) * query.PageSize
	end := min(start+query.PageSize, page.Total)
	for _, sd := range scored[start:end] {
		page.Results = append(page.Results, domain.SearchResult{
			ID:        sd.doc.ID,
			Title:     sd.doc.Title,
			Path:      sd.doc.Path,
			Type:      sd.doc.Type,
			Snippet:   makeSnippet(sd.doc.Text, tokens),
			UpdatedAt: sd.doc.UpdatedAt,
			Relevance: sd.relevance,
		})
	}

	logger.Debug("search: %q matched %d documents", query.Query, page.Total)
	return page, nil
}

// relevance scores doc against the query tokens. A repeated token counts
// once per occurrence.
func relevance(doc domain.IndexedDocument, tokens []string) int {
	title := strings.ToLower(doc.Title)
	score := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleMatchScore
			if strings.HasPrefix(title, token) {
				score += titlePrefixScore
			}
		}
		if strings.Contains(doc.Text, token) {
			score += textMatchScore
		}
	}
	return score
}

// Health returns a snapshot of the index state.
func (s *SearchIndex) Health() domain.IndexHealth {
	snap := s.current.Load()
	return domain.IndexHealth{
		Status:        HealthStatusOK,
		DocumentCount: len(snap.docs),
		LastIndexed:   snap.lastIndexed,
	}
}

// Postings returns the ids of documents indexed under token.
func (s *SearchIndex) Postings(token string) []string {
	return s.current.Load().postings(token)
}

// Document returns the indexed form of the document with the given id.
func (s *SearchIndex) Document(id string) (domain.IndexedDocument, bool) {
	return s.current.Load().document(id)
}
