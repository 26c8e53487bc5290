// Package stat aggregates alignment and projection coverage over processed
// documents.
package stat

import (
	"github.com/revelaction/interlin/align"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/igt"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs      int
	NumRecords   int
	NumProcessed int
	NumFailed    int
	NumProjected int

	// translation words with at least one alignment, over all translation
	// words of processed records
	NumTransWords   int
	NumAlignedTrans int

	NumAlignments int

	// number of records per count of alignments
	AlignmentsDis map[int]int
}

// AlignmentCoverage is the share of translation words aligned, in [0, 1].
func (s Stats) AlignmentCoverage() float64 {
	if s.NumTransWords == 0 {
		return 0
	}
	return float64(s.NumAlignedTrans) / float64(s.NumTransWords)
}

// ProjectionCoverage is the share of processed records that got a language
// dependency structure.
func (s Stats) ProjectionCoverage() float64 {
	if s.NumProcessed == 0 {
		return 0
	}
	return float64(s.NumProjected) / float64(s.NumProcessed)
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	return &Handler{
		stats: Stats{AlignmentsDis: map[int]int{}},
	}
}

// Aggregate adds the records of doc. Records without a result count only
// towards NumRecords.
func (h *Handler) Aggregate(doc corpus.Doc) {
	h.stats.NumDocs++
	for _, rec := range doc.Records {
		h.stats.NumRecords++
		if rec.Result == nil {
			continue
		}
		h.stats.NumProcessed++
		if rec.Result.Failed() {
			h.stats.NumFailed++
		}
		if rec.Result.Projected() {
			h.stats.NumProjected++
		}

		aligned := map[int]bool{}
		for _, s := range rec.Result.Alignments {
			p, err := align.ParsePair(s)
			if err != nil {
				continue
			}
			aligned[p.Trans] = true
		}
		h.stats.NumAlignments += len(rec.Result.Alignments)
		h.stats.AlignmentsDis[len(rec.Result.Alignments)]++
		h.stats.NumAlignedTrans += len(aligned)
		h.stats.NumTransWords += len(igt.TokenizeTranslation(rec.Trans))
	}
}
