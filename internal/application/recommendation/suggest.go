package recommendation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/gateway"
)

// Recommendation is one suggested product with the reason it was picked.
type Recommendation struct {
	ProductID int64
	Name      string
	Reason    string
	Score     float64
}

// affinityEntry links a purchased product to a suggested one.
type affinityEntry struct {
	productID int64
	reason    string
}

// affinityTable is a static "bought X, suggest Y" model. Entries are ranked:
// the first suggestion for a product scores highest.
var affinityTable = map[int64][]affinityEntry{
	1: {
		{productID: 4, reason: "Pairs well with your smartphone."},
		{productID: 3, reason: "Complementary accessories."},
	},
	2: {
		{productID: 5, reason: "Don't forget the memory card!"},
		{productID: 1, reason: "Other gadgets."},
	},
	5: {
		{productID: 2, reason: "The main product for this accessory."},
	},
}

// defaultRecommendations is served to users with no purchase history.
var defaultRecommendations = []Recommendation{
	{ProductID: 1, Name: "Wireless Headphones", Reason: "Best sellers.", Score: 0.8},
	{ProductID: 2, Name: "Digital Camera", Reason: "Best sellers.", Score: 0.7},
}

// SuggestUseCase generates product suggestions from a user's order history.
type SuggestUseCase struct {
	orders  order.Repository
	catalog gateway.CatalogGateway
	logger  zerolog.Logger
}

// NewSuggestUseCase creates a new SuggestUseCase.
func NewSuggestUseCase(orders order.Repository, catalog gateway.CatalogGateway, logger zerolog.Logger) *SuggestUseCase {
	return &SuggestUseCase{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
	}
}

// Suggest returns ranked recommendations for the user. Products the user has
// already purchased are never suggested. Users without history get the
// default best-sellers list.
func (uc *SuggestUseCase) Suggest(ctx context.Context, userID string) ([]Recommendation, error) {
	if userID == "" {
		return nil, domainErrors.NewValidationError("user_id", "cannot be empty")
	}

	history, err := uc.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}

	if len(history) == 0 {
		out := make([]Recommendation, len(defaultRecommendations))
		copy(out, defaultRecommendations)
		return out, nil
	}

	purchased := make(map[int64]bool)
	for _, o := range history {
		for _, item := range o.Items {
			purchased[item.ProductID] = true
		}
	}

	// Iterate purchases in a fixed order so repeated calls rank identically.
	purchasedIDs := make([]int64, 0, len(purchased))
	for id := range purchased {
		purchasedIDs = append(purchasedIDs, id)
	}
	sort.Slice(purchasedIDs, func(i, j int) bool { return purchasedIDs[i] < purchasedIDs[j] })

	seen := make(map[int64]bool)
	var recs []Recommendation
	for _, id := range purchasedIDs {
		for rank, entry := range affinityTable[id] {
			if purchased[entry.productID] || seen[entry.productID] {
				continue
			}
			seen[entry.productID] = true
			recs = append(recs, Recommendation{
				ProductID: entry.productID,
				Reason:    entry.reason,
				Score:     math.Round((1.0-0.1*float64(rank))*100) / 100,
			})
		}
	}

	for i := range recs {
		recs[i].Name = uc.productName(ctx, recs[i].ProductID)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ProductID < recs[j].ProductID
	})

	return recs, nil
}

// productName resolves the display name from the catalog. Catalog outages
// degrade to a placeholder instead of failing the suggestion.
func (uc *SuggestUseCase) productName(ctx context.Context, productID int64) string {
	name, err := uc.catalog.ProductName(ctx, productID)
	if err != nil || name == "" {
		uc.logger.Debug().
			Int64("product_id", productID).
			Err(err).
			Msg("catalog name lookup failed, using placeholder")
		return fmt.Sprintf("Product %d", productID)
	}
	return name
}
