package services

import (
	"maps"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// indexSnapshot is an immutable view of the inverted index.
// Documents are addressed by ordinal; ordinals are stable within a
// snapshot and everything derived from it by edit.
type indexSnapshot struct {
	docs        []domain.IndexedDocument
	ordinals    map[string]uint32
	tokens      map[string]*roaring.Bitmap
	lastIndexed time.Time
}

func emptySnapshot() *indexSnapshot {
	return &indexSnapshot{
		ordinals: make(map[string]uint32),
		tokens:   make(map[string]*roaring.Bitmap),
	}
}

// document returns the document with the given id.
func (s *indexSnapshot) document(id string) (domain.IndexedDocument, bool) {
	ord, ok := s.ordinals[id]
	if !ok {
		return domain.IndexedDocument{}, false
	}
	return s.docs[ord], true
}

// postings returns the ids indexed under token, in ordinal order.
func (s *indexSnapshot) postings(token string) []string {
	bm, ok := s.tokens[token]
	if !ok {
		return nil
	}
	ids := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, s.docs[it.Next()].ID)
	}
	return ids
}

// indexBuilder applies writes to a private copy of a snapshot.
// Bitmaps shared with the source snapshot are cloned before mutation.
type indexBuilder struct {
	snap  *indexSnapshot
	owned map[string]bool
	fresh bool
}

// newBuilder starts an empty index.
func newBuilder() *indexBuilder {
	return &indexBuilder{snap: emptySnapshot(), fresh: true}
}

// edit starts a copy-on-write builder from s. s is never modified.
func (s *indexSnapshot) edit() *indexBuilder {
	return &indexBuilder{
		snap: &indexSnapshot{
			docs:        append([]domain.IndexedDocument(nil), s.docs...),
			ordinals:    maps.Clone(s.ordinals),
			tokens:      maps.Clone(s.tokens),
			lastIndexed: s.lastIndexed,
		},
		owned: make(map[string]bool),
	}
}

// bitmap returns a writable bitmap for token, creating it if needed.
func (b *indexBuilder) bitmap(token string) *roaring.Bitmap {
	bm, ok := b.snap.tokens[token]
	switch {
	case !ok:
		bm = roaring.New()
		b.snap.tokens[token] = bm
		if !b.fresh {
			b.owned[token] = true
		}
	case !b.fresh && !b.owned[token]:
		bm = bm.Clone()
		b.snap.tokens[token] = bm
		b.owned[token] = true
	}
	return bm
}

// index adds doc, first removing every token of its previous text.
func (b *indexBuilder) index(doc domain.IndexedDocument) {
	ord, exists := b.snap.ordinals[doc.ID]
	if exists {
		for _, token := range uniqueTokens(b.snap.docs[ord].Text) {
			if _, ok := b.snap.tokens[token]; !ok {
				continue
			}
			bm := b.bitmap(token)
			bm.Remove(ord)
			if bm.IsEmpty() {
				delete(b.snap.tokens, token)
			}
		}
		b.snap.docs[ord] = doc
	} else {
		ord = uint32(len(b.snap.docs))
		b.snap.docs = append(b.snap.docs, doc)
		b.snap.ordinals[doc.ID] = ord
	}

	for _, token := range uniqueTokens(doc.Text) {
		b.bitmap(token).Add(ord)
	}
}

// build returns the finished snapshot. The builder must not be used afterwards.
func (b *indexBuilder) build(lastIndexed time.Time) *indexSnapshot {
	b.snap.lastIndexed = lastIndexed
	return b.snap
}
