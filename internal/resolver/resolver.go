// Package resolver ranks existing clients and products against a partially
// extracted entity.
package resolver

import (
	"sort"
	"strings"

	"draftwise/internal/domain"
	"draftwise/internal/similarity"
)

// Client scoring weights.
const (
	clientNameWeight    = 3.0
	clientEmailBonus    = 5.0
	clientPhoneBonus    = 4.0
	clientAddressWeight = 2.0
	clientTaxBonus      = 4.0
)

// Product scoring weights.
const (
	productNameWeight        = 4.0
	productDescriptionWeight = 3.0
)

// DefaultTopN is the number of matches returned per resolution.
const DefaultTopN = 3

// Thresholds classifies the top score of a ranking. A score strictly above
// High is high confidence, strictly above Medium is medium, anything else low.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// Default thresholds. Both are hand-tuned and can be overridden with
// WithClientThresholds and WithProductThresholds.
var (
	DefaultClientThresholds  = Thresholds{High: 8, Medium: 4}
	DefaultProductThresholds = Thresholds{High: 3, Medium: 1.5}
)

// Classify maps a top score to a confidence level.
func (t Thresholds) Classify(score float64) domain.Confidence {
	switch {
	case score > t.High:
		return domain.ConfidenceHigh
	case score > t.Medium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// Match pairs a candidate record with its score.
type Match[T any] struct {
	Candidate T       `json:"candidate"`
	Score     float64 `json:"score"`
}

// Resolution is the ranked outcome of resolving one entity.
type Resolution[T any] struct {
	Matches    []Match[T]        `json:"matches"`
	Confidence domain.Confidence `json:"confidence"`
}

// Top returns the best match, if any.
func (r Resolution[T]) Top() (Match[T], bool) {
	if len(r.Matches) == 0 {
		var zero Match[T]
		return zero, false
	}
	return r.Matches[0], true
}

// ProductQuery is the partial product being resolved.
type ProductQuery struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductQueryFromItem builds a query from an extracted line item. Line items
// only carry a description, so it is compared against both product fields.
func ProductQueryFromItem(item domain.ExtractedLineItem) ProductQuery {
	return ProductQuery{Name: item.Description, Description: item.Description}
}

// Resolver scores candidates with fixed weights and configurable thresholds.
type Resolver struct {
	clientThresholds  Thresholds
	productThresholds Thresholds
	topN              int
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithClientThresholds overrides the client confidence thresholds.
func WithClientThresholds(t Thresholds) Option {
	return func(r *Resolver) { r.clientThresholds = t }
}

// WithProductThresholds overrides the product confidence thresholds.
func WithProductThresholds(t Thresholds) Option {
	return func(r *Resolver) { r.productThresholds = t }
}

// WithTopN overrides how many matches are kept.
func WithTopN(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.topN = n
		}
	}
}

// New creates a Resolver with the default thresholds.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		clientThresholds:  DefaultClientThresholds,
		productThresholds: DefaultProductThresholds,
		topN:              DefaultTopN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveClient ranks candidates against partial. An empty candidate list
// yields no matches and low confidence.
func (r *Resolver) ResolveClient(partial domain.ExtractedClient, candidates []domain.Client) Resolution[domain.Client] {
	matches := make([]Match[domain.Client], 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, Match[domain.Client]{Candidate: c, Score: ScoreClient(partial, c)})
	}
	return rank(matches, r.topN, r.clientThresholds)
}

// ResolveProduct ranks candidates against query.
func (r *Resolver) ResolveProduct(query ProductQuery, candidates []domain.Product) Resolution[domain.Product] {
	matches := make([]Match[domain.Product], 0, len(candidates))
	for _, p := range candidates {
		matches = append(matches, Match[domain.Product]{Candidate: p, Score: ScoreProduct(query, p)})
	}
	return rank(matches, r.topN, r.productThresholds)
}

// ScoreClient sums every applicable weighted term for one candidate.
func ScoreClient(partial domain.ExtractedClient, c domain.Client) float64 {
	score := similarity.Similarity(partial.Name, c.Name) * clientNameWeight

	if email := strings.TrimSpace(partial.Email); email != "" && strings.EqualFold(email, strings.TrimSpace(c.Email)) {
		score += clientEmailBonus
	}
	if phone := similarity.NormalizePhone(partial.Phone); phone != "" && phone == similarity.NormalizePhone(c.Phone) {
		score += clientPhoneBonus
	}
	score += similarity.Similarity(partial.Address, c.Address) * clientAddressWeight
	if tax := strings.TrimSpace(partial.TaxNumber); tax != "" && tax == strings.TrimSpace(c.TaxNumber) {
		score += clientTaxBonus
	}
	return score
}

// ScoreProduct weighs name and description similarity for one candidate.
func ScoreProduct(query ProductQuery, p domain.Product) float64 {
	return similarity.Similarity(query.Name, p.Name)*productNameWeight +
		similarity.Similarity(query.Description, p.Description)*productDescriptionWeight
}

func rank[T any](matches []Match[T], topN int, t Thresholds) Resolution[T] {
	// Stable so that equally scored candidates keep their input order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}

	conf := domain.ConfidenceLow
	if len(matches) > 0 {
		conf = t.Classify(matches[0].Score)
	}
	return Resolution[T]{Matches: matches, Confidence: conf}
}

var defaultResolver = New()

// ResolveClient resolves with the default thresholds.
func ResolveClient(partial domain.ExtractedClient, candidates []domain.Client) Resolution[domain.Client] {
	return defaultResolver.ResolveClient(partial, candidates)
}

// ResolveProduct resolves with the default thresholds.
func ResolveProduct(query ProductQuery, candidates []domain.Product) Resolution[domain.Product] {
	return defaultResolver.ResolveProduct(query, candidates)
}
