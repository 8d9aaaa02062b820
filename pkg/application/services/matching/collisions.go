package matching

import "github.com/vsinha/bidengine/pkg/domain/entities"

// CollisionRisk is the risk assigned to a direct product collision
const CollisionRisk = "High"

// AnalyzeCollisions lists every competitor that offers the product chosen
// for a lot, in line item order then competitor order.
func AnalyzeCollisions(items []entities.LineItemMatch, competitors []*entities.Competitor) []entities.CompetitorCollision {
	var collisions []entities.CompetitorCollision
	for _, item := range items {
		productID := item.Best.ProductID
		if productID == entities.NoMatchProductID {
			continue
		}
		for _, comp := range competitors {
			if !comp.Collides(productID) {
				continue
			}
			collisions = append(collisions, entities.CompetitorCollision{
				LotID:        item.LotID,
				CompetitorID: comp.CompetitorID,
				Competitor:   comp.Name,
				ProductID:    productID,
				Risk:         CollisionRisk,
			})
		}
	}
	return collisions
}
