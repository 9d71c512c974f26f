package assets

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/example/wp-media-redirect/domain/asset"
)

// Okapi BM25 parameters.
const (
	bm25K1      = 1.2
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// Field weights: a term hit in the title counts more than one in a tag
// label, which counts more than one in the caption.
const (
	titleWeight   = 3.0
	tagWeight     = 2.0
	captionWeight = 1.0
)

// rankedAsset pairs a candidate with its relevance score.
type rankedAsset struct {
	Asset asset.Asset
	Score float64
}

// tokenize lowercases s and splits it on every non-alphanumeric rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termFrequencies builds the weighted term-frequency map for one asset and
// returns it with the asset's weighted token length.
func termFrequencies(a *asset.Asset) (map[string]float64, float64) {
	freqs := make(map[string]float64)
	var length float64

	add := func(text string, weight float64) {
		for _, tok := range tokenize(text) {
			freqs[tok] += weight
			length += weight
		}
	}

	add(a.Title, titleWeight)
	for _, label := range a.TagLabels() {
		add(label, tagWeight)
	}
	add(a.Caption, captionWeight)

	return freqs, length
}

// rankCandidates orders candidates by BM25 relevance to term, dropping
// candidates that share no token with it. Ties break by creation time
// (newest first), then by ID, so the ordering is stable across runs.
func rankCandidates(term string, candidates []asset.Asset) []rankedAsset {
	query := tokenize(term)
	if len(query) == 0 || len(candidates) == 0 {
		return nil
	}

	freqs := make([]map[string]float64, len(candidates))
	lengths := make([]float64, len(candidates))
	var totalLen float64
	for i := range candidates {
		freqs[i], lengths[i] = termFrequencies(&candidates[i])
		totalLen += lengths[i]
	}
	avgLen := totalLen / float64(len(candidates))
	if avgLen == 0 {
		return nil
	}

	// A token counts once per candidate containing it, however often it
	// repeats in the query or the candidate's fields.
	docFreq := make(map[string]int)
	for i := range candidates {
		for tok := range freqs[i] {
			docFreq[tok]++
		}
	}

	n := float64(len(candidates))
	ranked := make([]rankedAsset, 0, len(candidates))
	for i := range candidates {
		var score float64
		for _, tok := range query {
			tf := freqs[i][tok]
			if tf == 0 {
				continue
			}
			df := float64(docFreq[tok])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			if idf < 0 {
				idf = bm25Epsilon
			}
			score += idf * (tf * (bm25K1 + 1)) /
				(tf + bm25K1*(1-bm25B+bm25B*lengths[i]/avgLen))
		}
		if score > 0 {
			ranked = append(ranked, rankedAsset{Asset: candidates[i], Score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Asset.CreatedAt.Equal(ranked[j].Asset.CreatedAt) {
			return ranked[i].Asset.CreatedAt.After(ranked[j].Asset.CreatedAt)
		}
		return ranked[i].Asset.ID < ranked[j].Asset.ID
	})

	return ranked
}
