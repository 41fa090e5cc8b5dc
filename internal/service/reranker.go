package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/pageza/ragcipe/backend/internal/logging"
)

// Reranker orders candidates by cross-encoder relevance
type Reranker struct {
	scorer RelevanceScorer
}

// NewReranker creates a new Reranker instance
func NewReranker(scorer RelevanceScorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores every candidate against the query, sorts by score descending and keeps topK.
// Equal scores keep their retrieval order. The scorer is never called with no documents.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) ([]Candidate, error) {
	if len(candidates) == 0 || topK <= 0 {
		return []Candidate{}, nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Text
	}

	scores, err := r.scorer.Score(ctx, query, docs)
	if err != nil {
		return nil, dependencyError(DepRelevanceScore, fmt.Errorf("failed to score candidates: %w", err))
	}
	if len(scores) != len(candidates) {
		return nil, dependencyError(DepRelevanceScore,
			fmt.Errorf("scorer returned %d scores for %d documents", len(scores), len(candidates)))
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Score = scores[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	logging.Ctx(ctx).Debug().Int("in", len(candidates)).Int("out", len(ranked)).Msg("reranked candidates")
	return ranked, nil
}
