package aggregator

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/expertsai"
)

const (
	// pageSize matches the search API's listing page size.
	pageSize = 5
	// maxPages caps the number of pages requested per term.
	maxPages = 3
)

// Searcher is the paginated search surface the aggregator fans out to.
type Searcher interface {
	Page(term string, page, limit int) ([]*expertsai.Opportunity, error)
}

// AssignmentStore persists opportunities surfaced to a user.
type AssignmentStore interface {
	AssignmentExists(ctx context.Context, userID, opportunityID string) (bool, error)
	InsertAssignment(ctx context.Context, userID string, opp *expertsai.Opportunity) error
}

// Aggregator turns a user's free-text interests into a deduplicated set of
// opportunities and persists newly-seen ones as assignments.
type Aggregator struct {
	search Searcher
	store  AssignmentStore
	logger *zap.Logger
}

func New(search Searcher, store AssignmentStore, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		search: search,
		store:  store,
		logger: logger,
	}
}

// Terms splits free-text interests into lowercase search terms, dropping
// blanks. Commas and whitespace both delimit.
func Terms(interestText string) []string {
	cleaned := strings.ReplaceAll(strings.ToLower(interestText), ",", " ")

	var terms []string
	for _, term := range strings.Fields(cleaned) {
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// Aggregate fans the user's interest terms out to the search API, unions the
// results by opportunity id and stores new assignments. It always returns a
// best-effort result: a failing page ends paging for its term only, and a
// failing insert never removes the item from the returned set.
func (a *Aggregator) Aggregate(ctx context.Context, userID, interestText string) []*expertsai.Opportunity {
	seen := make(map[string]*expertsai.Opportunity)

	for _, term := range Terms(interestText) {
		for page := 1; page <= maxPages; page++ {
			a.logger.Debug("searching term",
				zap.String("term", term),
				zap.Int("page", page),
			)

			listings, err := a.search.Page(term, page, pageSize)
			if err != nil {
				a.logger.Warn("search page failed",
					zap.String("term", term),
					zap.Int("page", page),
					zap.Error(err),
				)
				break
			}

			for _, listing := range listings {
				if _, ok := seen[listing.ID]; !ok {
					seen[listing.ID] = listing
				}
			}

			// A short page means there is nothing more to fetch.
			if len(listings) < pageSize {
				break
			}
		}
	}

	results := make([]*expertsai.Opportunity, 0, len(seen))
	for _, opp := range seen {
		results = append(results, opp)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	a.persist(ctx, userID, results)

	a.logger.Info("aggregation finished",
		zap.String("user_id", userID),
		zap.Int("opportunities", len(results)),
	)

	return results
}

// persist stores assignments for listings the user has not seen before.
// Failures are advisory: they are logged and the result set stays intact.
func (a *Aggregator) persist(ctx context.Context, userID string, results []*expertsai.Opportunity) {
	for _, opp := range results {
		exists, err := a.store.AssignmentExists(ctx, userID, opp.ID)
		if err != nil {
			a.logger.Warn("assignment existence check failed",
				zap.String("user_id", userID),
				zap.String("opportunity_id", opp.ID),
				zap.Error(err),
			)
			continue
		}
		if exists {
			continue
		}

		if err := a.store.InsertAssignment(ctx, userID, opp); err != nil {
			a.logger.Warn("assignment insert failed",
				zap.String("user_id", userID),
				zap.String("opportunity_id", opp.ID),
				zap.Error(err),
			)
		}
	}
}
