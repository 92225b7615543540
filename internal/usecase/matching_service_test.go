package usecase

import (
	"reflect"
	"sync"
	"testing"

	"github.com/honeybarrel/backend/internal/domain"
)

func buffaloTraceQuery() *domain.BottleRecord {
	return &domain.BottleRecord{
		Name:     "Buffalo Trace Bourbon",
		Brand:    "Buffalo Trace",
		Volume:   "750ml",
		Category: "whisky",
		Price:    30,
	}
}

func TestNewMatchingService(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	if svc.logger == nil {
		t.Fatal("logger = nil, want no-op logger")
	}
	if svc.enableDebugLogging {
		t.Error("enableDebugLogging = true, want false by default")
	}
}

func TestFindMatch_EarlyExits(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	catalog := []domain.ListingRecord{
		{ID: "x1", Name: "Buffalo Trace Bourbon", Category: "whisky"},
	}

	t.Run("nil query", func(t *testing.T) {
		if got := svc.FindMatch(nil, catalog); got != nil {
			t.Errorf("FindMatch(nil) = %+v, want nil", got)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		query := &domain.BottleRecord{Name: "", Brand: "Buffalo Trace", Category: "whisky"}
		if got := svc.FindMatch(query, catalog); got != nil {
			t.Errorf("FindMatch(empty name) = %+v, want nil", got)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		if got := svc.FindMatch(buffaloTraceQuery(), nil); got != nil {
			t.Errorf("FindMatch(nil catalog) = %+v, want nil", got)
		}
		if got := svc.FindMatch(buffaloTraceQuery(), []domain.ListingRecord{}); got != nil {
			t.Errorf("FindMatch(empty catalog) = %+v, want nil", got)
		}
	})
}

func TestFindMatch_ExactMatch(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	catalog := []domain.ListingRecord{
		{ID: "x0", Name: "Sazerac Rye", Brand: "Sazerac", Volume: "750ml", Category: "whisky", Price: 40},
		{ID: "x1", Name: "Buffalo Trace Bourbon", Brand: "Buffalo Trace", Volume: "750ml", Category: "whisky", Price: 25},
	}

	got := svc.FindMatch(buffaloTraceQuery(), catalog)
	if got == nil {
		t.Fatal("FindMatch() = nil, want listing x1")
	}
	if got.ID != "x1" {
		t.Errorf("FindMatch().ID = %q, want x1", got.ID)
	}
	if got != &catalog[1] {
		t.Error("FindMatch() should return the catalog entry itself")
	}

	candidates := svc.Rank(buffaloTraceQuery(), catalog)
	if len(candidates) != 1 {
		t.Fatalf("Rank() returned %d candidates, want 1", len(candidates))
	}
	want := AttributeScores{Name: 100, Brand: 100, Vintage: 0, Volume: 100}
	if candidates[0].Scores != want {
		t.Errorf("Scores = %+v, want %+v", candidates[0].Scores, want)
	}
	if candidates[0].TotalScore != 100 {
		t.Errorf("TotalScore = %v, want 100", candidates[0].TotalScore)
	}
}

func TestFindMatch_BelowNameGate(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Macallan 12", Category: "whisky"}
	catalog := []domain.ListingRecord{
		{ID: "g15", Name: "Glenfiddich 15", Category: "whisky"},
	}

	if got := svc.FindMatch(query, catalog); got != nil {
		t.Errorf("FindMatch() = %+v, want nil", got)
	}
	if got := svc.Rank(query, catalog); len(got) != 0 {
		t.Errorf("Rank() = %+v, want no candidates", got)
	}
}

func TestFindMatch_CategoryExclusion(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Reserve Selection", Category: "whisky"}
	catalog := []domain.ListingRecord{
		{ID: "w1", Name: "Reserve Selection", Category: "wine"},
		{ID: "w2", Name: "Reserve Selection", Category: "Red Wine"},
	}

	if got := svc.FindMatch(query, catalog); got != nil {
		t.Errorf("FindMatch() = %+v, want nil for incompatible categories", got)
	}
}

func TestFindMatch_UnclassifiedCategoryIsCompatible(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Buffalo Trace Bourbon", Category: "unknown"}
	catalog := []domain.ListingRecord{
		{ID: "b1", Name: "Buffalo Trace Bourbon", Category: "Bourbon"},
	}

	got := svc.FindMatch(query, catalog)
	if got == nil || got.ID != "b1" {
		t.Errorf("FindMatch() = %+v, want b1", got)
	}
}

func TestFindMatch_NameAloneBelowThreshold(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	// Name similarity 67 clears the gate but not the final threshold
	query := &domain.BottleRecord{Name: "Four Roses Single Barrel"}
	catalog := []domain.ListingRecord{
		{ID: "fr", Name: "Four Roses Small Batch"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 1 {
		t.Fatalf("Rank() returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].TotalScore != 67 {
		t.Errorf("TotalScore = %v, want 67", candidates[0].TotalScore)
	}
	if got := svc.FindMatch(query, catalog); got != nil {
		t.Errorf("FindMatch() = %+v, want nil", got)
	}
}

func TestFindMatch_BrandCorroboratesName(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Four Roses Single Barrel", Brand: "Four Roses"}
	catalog := []domain.ListingRecord{
		{ID: "fr", Name: "Four Roses Small Batch", Brand: "Four Roses"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 1 {
		t.Fatalf("Rank() returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].TotalScore != 83.5 {
		t.Errorf("TotalScore = %v, want 83.5", candidates[0].TotalScore)
	}
	if got := svc.FindMatch(query, catalog); got == nil || got.ID != "fr" {
		t.Errorf("FindMatch() = %+v, want fr", got)
	}
}

func TestFindMatch_VintagePicksExactYear(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Opus One 2018", Vintage: "2018", Category: "Red Wine"}
	catalog := []domain.ListingRecord{
		{ID: "o19", Name: "Opus One 2019", Vintage: "2019", Category: "wine"},
		{ID: "o18", Name: "Opus One 2018", Vintage: "2018", Category: "wine"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 2 {
		t.Fatalf("Rank() returned %d candidates, want 2", len(candidates))
	}
	if candidates[0].Listing.ID != "o18" || candidates[0].TotalScore != 100 {
		t.Errorf("top candidate = %s (%v), want o18 (100)", candidates[0].Listing.ID, candidates[0].TotalScore)
	}
	// A vintage mismatch contributes nothing rather than a penalty
	if candidates[1].Scores.Vintage != 0 || candidates[1].TotalScore != 92 {
		t.Errorf("second candidate scores = %+v total %v, want vintage 0 total 92",
			candidates[1].Scores, candidates[1].TotalScore)
	}
}

func TestFindMatch_VolumeMismatchIsNotCounted(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Buffalo Trace Bourbon", Volume: "750ml"}
	catalog := []domain.ListingRecord{
		{ID: "big", Name: "Buffalo Trace Bourbon", Volume: "1.75L"},
		{ID: "odd", Name: "Buffalo Trace Bourbon", Volume: "one bottle"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 2 {
		t.Fatalf("Rank() returned %d candidates, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.Scores.Volume != 0 || c.TotalScore != 100 {
			t.Errorf("candidate %s: scores %+v total %v, want volume 0 total 100",
				c.Listing.ID, c.Scores, c.TotalScore)
		}
	}
}

func TestFindMatch_TieBreakUsesCatalogOrder(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := buffaloTraceQuery()
	catalog := []domain.ListingRecord{
		{ID: "first", Name: "Buffalo Trace Bourbon", Brand: "Buffalo Trace", Volume: "750ml", Category: "whisky"},
		{ID: "second", Name: "Buffalo Trace Bourbon", Brand: "Buffalo Trace", Volume: "75cl", Category: "whisky"},
		{ID: "third", Name: "Buffalo Trace Bourbon", Brand: "Buffalo Trace", Volume: "0.75 L", Category: "bourbon"},
	}

	got := svc.FindMatch(query, catalog)
	if got == nil || got.ID != "first" {
		t.Fatalf("FindMatch() = %+v, want first", got)
	}

	candidates := svc.Rank(query, catalog)
	for i, id := range []string{"first", "second", "third"} {
		if candidates[i].Listing.ID != id || candidates[i].Index != i {
			t.Errorf("candidate %d = %s (index %d), want %s", i, candidates[i].Listing.ID, candidates[i].Index, id)
		}
	}

	reordered := []domain.ListingRecord{catalog[2], catalog[0], catalog[1]}
	if got := svc.FindMatch(query, reordered); got == nil || got.ID != "third" {
		t.Errorf("FindMatch(reordered) = %+v, want third", got)
	}
}

func TestRank_SortedDescending(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Eagle Rare 10", Brand: "Buffalo Trace"}
	catalog := []domain.ListingRecord{
		{ID: "weak", Name: "Eagle Rare 10 Year"},
		{ID: "strong", Name: "Eagle Rare 10", Brand: "Buffalo Trace"},
		{ID: "other", Name: "Weller Antique 107"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 2 {
		t.Fatalf("Rank() returned %d candidates, want 2", len(candidates))
	}
	if candidates[0].Listing.ID != "strong" || candidates[1].Listing.ID != "weak" {
		t.Errorf("order = [%s %s], want [strong weak]", candidates[0].Listing.ID, candidates[1].Listing.ID)
	}
	for _, c := range candidates {
		for _, s := range []int{c.Scores.Name, c.Scores.Brand, c.Scores.Vintage, c.Scores.Volume} {
			if s < 0 || s > 100 {
				t.Errorf("score %d out of range for %s", s, c.Listing.ID)
			}
		}
	}
}

func TestFindMatch_ZeroBrandScoreNotAveraged(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	query := &domain.BottleRecord{Name: "Eagle Rare 10", Brand: "xyz"}
	catalog := []domain.ListingRecord{
		{ID: "er", Name: "Eagle Rare 10", Brand: "Buffalo Trace"},
	}

	candidates := svc.Rank(query, catalog)
	if len(candidates) != 1 {
		t.Fatalf("Rank() returned %d candidates, want 1", len(candidates))
	}
	if candidates[0].Scores.Brand != 0 || candidates[0].TotalScore != 100 {
		t.Errorf("scores %+v total %v, want brand 0 total 100", candidates[0].Scores, candidates[0].TotalScore)
	}
}

func TestFindMatch_DoesNotMutateInputs(t *testing.T) {
	svc := NewMatchingService(MatchConfig{EnableDebugLogging: true})
	query := buffaloTraceQuery()
	catalog := []domain.ListingRecord{
		{ID: "a", Name: "Buffalo Trace Bourbon!", Brand: "BUFFALO TRACE", Volume: "75 cl", Category: "Bourbon"},
		{ID: "b", Name: "Buffalo Trace Kosher Wheat", Category: "whisky"},
	}

	queryCopy := *query
	catalogCopy := append([]domain.ListingRecord(nil), catalog...)

	_ = svc.FindMatch(query, catalog)

	if *query != queryCopy {
		t.Errorf("query mutated: %+v, want %+v", *query, queryCopy)
	}
	if !reflect.DeepEqual(catalog, catalogCopy) {
		t.Errorf("catalog mutated: %+v, want %+v", catalog, catalogCopy)
	}
}

func TestFindMatch_Concurrent(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	catalog := []domain.ListingRecord{
		{ID: "x1", Name: "Buffalo Trace Bourbon", Brand: "Buffalo Trace", Volume: "750ml", Category: "whisky"},
		{ID: "o18", Name: "Opus One 2018", Vintage: "2018", Category: "wine"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := buffaloTraceQuery()
			want := "x1"
			if i%2 == 1 {
				query = &domain.BottleRecord{Name: "Opus One 2018", Vintage: "2018", Category: "wine"}
				want = "o18"
			}
			if got := svc.FindMatch(query, catalog); got == nil || got.ID != want {
				t.Errorf("FindMatch() = %+v, want %s", got, want)
			}
		}(i)
	}
	wg.Wait()
}
