package memory

import (
	"fmt"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// ReferenceRepository holds the reference tables in memory. Load everything
// before sharing it; after that it is read-only and safe for concurrent use.
type ReferenceRepository struct {
	products       []entities.ProductSKU
	productsMap    map[string]int
	materials      []entities.Material
	materialsMap   map[string]int
	zones          []entities.LogisticsZone
	zonesMap       map[string]int
	clients        []entities.Client
	competitors    []entities.Competitor
	competitorsMap map[string]int
	tests          []entities.TestRecord
	batches        []entities.FactoryBatch
}

// NewReferenceRepository creates an empty reference repository sized for the catalog
func NewReferenceRepository(expectedProducts, expectedMaterials int) *ReferenceRepository {
	return &ReferenceRepository{
		products:       make([]entities.ProductSKU, 0, expectedProducts),
		productsMap:    make(map[string]int, expectedProducts),
		materials:      make([]entities.Material, 0, expectedMaterials),
		materialsMap:   make(map[string]int, expectedMaterials),
		zonesMap:       make(map[string]int),
		competitorsMap: make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.ReferenceData = (*ReferenceRepository)(nil)

// LoadProducts loads catalog products; a repeated id replaces the earlier record
func (r *ReferenceRepository) LoadProducts(products []*entities.ProductSKU) error {
	for _, p := range products {
		if p.ProductID == "" {
			return fmt.Errorf("product id cannot be empty")
		}
		if idx, exists := r.productsMap[p.ProductID]; exists {
			r.products[idx] = *p
			continue
		}
		r.productsMap[p.ProductID] = len(r.products)
		r.products = append(r.products, *p)
	}
	return nil
}

// LoadMaterials loads material records; a repeated id replaces the earlier record
func (r *ReferenceRepository) LoadMaterials(materials []*entities.Material) error {
	for _, m := range materials {
		if m.MaterialID == "" {
			return fmt.Errorf("material id cannot be empty")
		}
		if idx, exists := r.materialsMap[m.MaterialID]; exists {
			r.materials[idx] = *m
			continue
		}
		r.materialsMap[m.MaterialID] = len(r.materials)
		r.materials = append(r.materials, *m)
	}
	return nil
}

// LoadZones loads logistics zones; a repeated code replaces the earlier record
func (r *ReferenceRepository) LoadZones(zones []*entities.LogisticsZone) error {
	for _, z := range zones {
		if z.ZoneCode == "" {
			return fmt.Errorf("zone code cannot be empty")
		}
		if idx, exists := r.zonesMap[z.ZoneCode]; exists {
			r.zones[idx] = *z
			continue
		}
		r.zonesMap[z.ZoneCode] = len(r.zones)
		r.zones = append(r.zones, *z)
	}
	return nil
}

// LoadClients loads client records
func (r *ReferenceRepository) LoadClients(clients []*entities.Client) error {
	for _, c := range clients {
		r.clients = append(r.clients, *c)
	}
	return nil
}

// LoadCompetitors loads competitor records; a repeated id replaces the earlier record
func (r *ReferenceRepository) LoadCompetitors(competitors []*entities.Competitor) error {
	for _, c := range competitors {
		if c.CompetitorID == "" {
			return fmt.Errorf("competitor id cannot be empty")
		}
		if idx, exists := r.competitorsMap[c.CompetitorID]; exists {
			r.competitors[idx] = *c
			continue
		}
		r.competitorsMap[c.CompetitorID] = len(r.competitors)
		r.competitors = append(r.competitors, *c)
	}
	return nil
}

// LoadTests loads the test catalog
func (r *ReferenceRepository) LoadTests(tests []*entities.TestRecord) error {
	for _, t := range tests {
		r.tests = append(r.tests, *t)
	}
	return nil
}

// LoadFactoryBatches loads the production schedule
func (r *ReferenceRepository) LoadFactoryBatches(batches []*entities.FactoryBatch) error {
	for _, b := range batches {
		r.batches = append(r.batches, *b)
	}
	return nil
}

// GetProducts returns the catalog in load order
func (r *ReferenceRepository) GetProducts() []*entities.ProductSKU {
	products := make([]*entities.ProductSKU, len(r.products))
	for i := range r.products {
		products[i] = &r.products[i]
	}
	return products
}

// GetProduct returns a catalog product by id
func (r *ReferenceRepository) GetProduct(productID string) (*entities.ProductSKU, error) {
	index, exists := r.productsMap[productID]
	if !exists {
		return nil, fmt.Errorf("product %s: %w", productID, repositories.ErrNotFound)
	}
	return &r.products[index], nil
}

// GetMaterial returns a material by id
func (r *ReferenceRepository) GetMaterial(materialID string) (*entities.Material, error) {
	index, exists := r.materialsMap[materialID]
	if !exists {
		return nil, fmt.Errorf("material %s: %w", materialID, repositories.ErrNotFound)
	}
	return &r.materials[index], nil
}

// GetZones returns all logistics zones in load order
func (r *ReferenceRepository) GetZones() []*entities.LogisticsZone {
	zones := make([]*entities.LogisticsZone, len(r.zones))
	for i := range r.zones {
		zones[i] = &r.zones[i]
	}
	return zones
}

// GetZone returns a logistics zone by code
func (r *ReferenceRepository) GetZone(zoneCode string) (*entities.LogisticsZone, error) {
	index, exists := r.zonesMap[zoneCode]
	if !exists {
		return nil, fmt.Errorf("zone %s: %w", zoneCode, repositories.ErrNotFound)
	}
	return &r.zones[index], nil
}

// GetClients returns all clients in load order
func (r *ReferenceRepository) GetClients() []*entities.Client {
	clients := make([]*entities.Client, len(r.clients))
	for i := range r.clients {
		clients[i] = &r.clients[i]
	}
	return clients
}

// GetCompetitors returns all competitors in load order
func (r *ReferenceRepository) GetCompetitors() []*entities.Competitor {
	competitors := make([]*entities.Competitor, len(r.competitors))
	for i := range r.competitors {
		competitors[i] = &r.competitors[i]
	}
	return competitors
}

// GetCompetitor returns a competitor by id
func (r *ReferenceRepository) GetCompetitor(competitorID string) (*entities.Competitor, error) {
	index, exists := r.competitorsMap[competitorID]
	if !exists {
		return nil, fmt.Errorf("competitor %s: %w", competitorID, repositories.ErrNotFound)
	}
	return &r.competitors[index], nil
}

// GetTests returns the test catalog
func (r *ReferenceRepository) GetTests() []*entities.TestRecord {
	tests := make([]*entities.TestRecord, len(r.tests))
	for i := range r.tests {
		tests[i] = &r.tests[i]
	}
	return tests
}

// GetFactoryBatches returns the production schedule
func (r *ReferenceRepository) GetFactoryBatches() []*entities.FactoryBatch {
	batches := make([]*entities.FactoryBatch, len(r.batches))
	for i := range r.batches {
		batches[i] = &r.batches[i]
	}
	return batches
}
