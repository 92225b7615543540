package usecase

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/honeybarrel/backend/internal/domain"
)

// Ranking thresholds. A name must clear nameGateScore to become a candidate;
// the attribute-weighted average must clear matchThreshold to be returned.
const (
	nameGateScore  = 65
	matchThreshold = 70.0
)

// AttributeScores holds per-attribute similarity scores, each in [0, 100]
type AttributeScores struct {
	Name    int `json:"name"`
	Brand   int `json:"brand"`
	Vintage int `json:"vintage"`
	Volume  int `json:"volume"`
}

// sum adds all four scores
func (s AttributeScores) sum() int {
	return s.Name + s.Brand + s.Vintage + s.Volume
}

// contributing counts attributes that scored above zero
func (s AttributeScores) contributing() int {
	n := 0
	for _, v := range []int{s.Name, s.Brand, s.Vintage, s.Volume} {
		if v > 0 {
			n++
		}
	}
	return n
}

// Candidate is a catalog listing paired with its scores for one ranking call
type Candidate struct {
	Listing    *domain.ListingRecord `json:"listing"`
	Index      int                   `json:"index"`
	Scores     AttributeScores       `json:"scores"`
	TotalScore float64               `json:"totalScore"`
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Logger             *zap.Logger
	EnableDebugLogging bool
}

// MatchingService finds the marketplace listing for a scraped bottle.
// It holds no per-call state and is safe for concurrent use.
type MatchingService struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		logger:             logger.Named("matcher"),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindMatch returns the catalog listing that best matches query, or nil when
// nothing clears the confidence threshold. Ties go to the earlier listing.
func (s *MatchingService) FindMatch(query *domain.BottleRecord, catalog []domain.ListingRecord) *domain.ListingRecord {
	candidates := s.Rank(query, catalog)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	if best.TotalScore <= matchThreshold {
		if s.enableDebugLogging {
			s.logger.Debug("best candidate below threshold",
				zap.String("query", query.Name),
				zap.String("listing", best.Listing.Name),
				zap.Float64("score", best.TotalScore))
		}
		return nil
	}

	if s.enableDebugLogging {
		s.logger.Debug("match found",
			zap.String("query", query.Name),
			zap.String("listing_id", best.Listing.ID),
			zap.String("listing", best.Listing.Name),
			zap.Float64("score", best.TotalScore))
	}

	return best.Listing
}

// Rank scores every category-compatible listing whose name clears the name
// gate and returns the candidates ordered by TotalScore, highest first.
// Equal scores keep catalog order. Neither query nor catalog is modified.
func (s *MatchingService) Rank(query *domain.BottleRecord, catalog []domain.ListingRecord) []Candidate {
	if query == nil || query.Name == "" || len(catalog) == 0 {
		return nil
	}

	candidates := s.collectCandidates(query, catalog)
	for i := range candidates {
		refineCandidate(query, &candidates[i])
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	return candidates
}

// collectCandidates admits listings on name similarity alone
func (s *MatchingService) collectCandidates(query *domain.BottleRecord, catalog []domain.ListingRecord) []Candidate {
	var candidates []Candidate

	for i := range catalog {
		listing := &catalog[i]

		if query.Category != "" && listing.Category != "" &&
			!CategoriesCompatible(query.Category, listing.Category) {
			continue
		}

		nameScore := scoreName(query, listing)

		if s.enableDebugLogging {
			s.logger.Debug("name scored",
				zap.String("query", query.Name),
				zap.String("listing", listing.Name),
				zap.Int("score", nameScore))
		}

		if nameScore > nameGateScore {
			candidates = append(candidates, Candidate{
				Listing:    listing,
				Index:      i,
				Scores:     AttributeScores{Name: nameScore},
				TotalScore: float64(nameScore),
			})
		}
	}

	return candidates
}

// refineCandidate adds brand, vintage and volume evidence and averages the
// total over the attributes that scored above zero
func refineCandidate(query *domain.BottleRecord, candidate *Candidate) {
	if score, ok := scoreBrand(query, candidate.Listing); ok {
		candidate.Scores.Brand = score
	}
	if score, ok := scoreVintage(query, candidate.Listing); ok {
		candidate.Scores.Vintage = score
	}
	if score, ok := scoreVolume(query, candidate.Listing); ok {
		candidate.Scores.Volume = score
	}

	if k := candidate.Scores.contributing(); k > 0 {
		candidate.TotalScore = float64(candidate.Scores.sum()) / float64(k)
	}
}
