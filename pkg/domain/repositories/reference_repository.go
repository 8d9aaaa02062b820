package repositories

import "github.com/vsinha/bidengine/pkg/domain/entities"

// ReferenceData provides read-only access to the reference tables shared by
// every engine stage. Implementations must be safe for concurrent readers.
type ReferenceData interface {
	// GetProducts returns the catalog in load order
	GetProducts() []*entities.ProductSKU
	GetProduct(productID string) (*entities.ProductSKU, error)
	GetMaterial(materialID string) (*entities.Material, error)
	GetZones() []*entities.LogisticsZone
	GetZone(zoneCode string) (*entities.LogisticsZone, error)
	GetClients() []*entities.Client
	GetCompetitors() []*entities.Competitor
	GetCompetitor(competitorID string) (*entities.Competitor, error)
	GetTests() []*entities.TestRecord
	GetFactoryBatches() []*entities.FactoryBatch
}
