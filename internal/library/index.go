// Package library provides full-text search over the user's own
// collections: watch history and liked videos. The catalog API only
// searches the public corpus, so finding "that video I watched last
// month" needs a local index.
package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/nkoval/vtv/internal/userdata"
)

// Kind distinguishes which collection a result came from.
type Kind string

const (
	KindHistory Kind = "history"
	KindLiked   Kind = "liked"
)

// Result is one library search hit.
type Result struct {
	Kind         Kind
	VideoID      string
	Title        string
	ChannelTitle string
	Score        float64
}

// Index is a bleve index over library entries. Entries are keyed so a
// video can appear once per collection.
type Index struct {
	idx bleve.Index
}

// Open opens or creates the index at indexPath.
func Open(indexPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, err
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}
	return &Index{idx: idx}, nil
}

// OpenInMemory creates a throwaway index, used in tests.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true

	channel := bleve.NewTextFieldMapping()
	channel.Analyzer = standard.Name
	channel.Store = true

	videoID := bleve.NewTextFieldMapping()
	videoID.Analyzer = standard.Name
	videoID.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("channel", channel)
	dm.AddFieldMappingsAt("video_id", videoID)

	im.DefaultMapping = dm
	return im
}

func docID(kind Kind, videoID string) string {
	return string(kind) + ":" + videoID
}

// PutHistory indexes or reindexes a watched video.
func (x *Index) PutHistory(e userdata.HistoryEntry) error {
	return x.put(KindHistory, e.VideoRef)
}

// PutLiked indexes or reindexes a liked video.
func (x *Index) PutLiked(v userdata.LikedVideo) error {
	return x.put(KindLiked, v.VideoRef)
}

func (x *Index) put(kind Kind, ref userdata.VideoRef) error {
	return x.idx.Index(docID(kind, ref.VideoID), map[string]any{
		"kind":     string(kind),
		"video_id": ref.VideoID,
		"title":    ref.Title,
		"channel":  ref.ChannelTitle,
	})
}

// Delete removes a video from one collection's index.
func (x *Index) Delete(kind Kind, videoID string) error {
	return x.idx.Delete(docID(kind, videoID))
}

// Reindex replaces index contents with the given collections.
func (x *Index) Reindex(history []userdata.HistoryEntry, liked []userdata.LikedVideo) error {
	batch := x.idx.NewBatch()
	for _, e := range history {
		_ = batch.Index(docID(KindHistory, e.VideoID), map[string]any{
			"kind":     string(KindHistory),
			"video_id": e.VideoID,
			"title":    e.Title,
			"channel":  e.ChannelTitle,
		})
	}
	for _, v := range liked {
		_ = batch.Index(docID(KindLiked, v.VideoID), map[string]any{
			"kind":     string(KindLiked),
			"video_id": v.VideoID,
			"title":    v.Title,
			"channel":  v.ChannelTitle,
		})
	}
	return x.idx.Batch(batch)
}

// Search runs a boosted match and prefix disjunction over title and
// channel. Queries shorter than two characters return nothing.
func (x *Index) Search(query string, limit int) ([]Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qc := bleve.NewMatchQuery(tok)
		qc.SetField("channel")
		qc.SetBoost(2.0)
		qs = append(qs, qc)

		qcp := bleve.NewPrefixQuery(tok)
		qcp.SetField("channel")
		qcp.SetBoost(1.5)
		qs = append(qs, qcp)
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"kind", "video_id", "title", "channel"}

	res, err := x.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := Result{Score: h.Score}
		if k, ok := h.Fields["kind"].(string); ok {
			r.Kind = Kind(k)
		}
		if v, ok := h.Fields["video_id"].(string); ok {
			r.VideoID = v
		}
		if t, ok := h.Fields["title"].(string); ok {
			r.Title = t
		}
		if c, ok := h.Fields["channel"].(string); ok {
			r.ChannelTitle = c
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total indexed entries.
func (x *Index) DocCount() (int, error) {
	n, err := x.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (x *Index) Close() error {
	return x.idx.Close()
}
