package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// PortfolioConfig configures demo portfolio generation
type PortfolioConfig struct {
	Count int
	// Seed makes the portfolio reproducible; zero picks a random seed
	Seed int64
	// Now anchors submission deadlines
	Now time.Time
	// ArchiveChance is the probability of an RFP starting archived (0.0-1.0)
	ArchiveChance float64
	// UnspecifiedChance is the probability of a requirement being left open
	UnspecifiedChance float64
}

// DefaultPortfolioConfig returns the settings used by the seed command
func DefaultPortfolioConfig(now time.Time) PortfolioConfig {
	return PortfolioConfig{
		Count:             12,
		Seed:              42,
		Now:               now,
		ArchiveChance:     0.1,
		UnspecifiedChance: 0.15,
	}
}

var paymentTerms = []string{"Advance Payment", "30 Days Credit", "60 Days Credit", "90 Days Credit"}

var projectKinds = []string{"feeder cable supply", "substation interconnect", "distribution network upgrade", "metro depot wiring", "solar park evacuation", "industrial plant wiring"}

// Generator builds RFP portfolios whose line items are drawn from a catalog
type Generator struct {
	ref repositories.ReferenceData
	cfg PortfolioConfig
	fk  *gofakeit.Faker
}

// NewGenerator creates a generator over the given reference data
func NewGenerator(ref repositories.ReferenceData, cfg PortfolioConfig) (*Generator, error) {
	if ref == nil {
		return nil, fmt.Errorf("reference data cannot be nil")
	}
	if len(ref.GetProducts()) == 0 {
		return nil, fmt.Errorf("cannot seed a portfolio from an empty catalog")
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}
	if cfg.ArchiveChance < 0 || cfg.ArchiveChance > 1 {
		return nil, fmt.Errorf("archive chance must be within 0-1, got %v", cfg.ArchiveChance)
	}
	if cfg.UnspecifiedChance < 0 || cfg.UnspecifiedChance > 1 {
		return nil, fmt.Errorf("unspecified chance must be within 0-1, got %v", cfg.UnspecifiedChance)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}

	return &Generator{
		ref: ref,
		cfg: cfg,
		fk:  gofakeit.New(cfg.Seed),
	}, nil
}

// Portfolio generates the configured number of RFPs with ids RFP-0001 onwards
func (g *Generator) Portfolio() ([]*entities.RFP, error) {
	products := g.ref.GetProducts()
	clients := g.ref.GetClients()
	today := g.cfg.Now.UTC().Truncate(24 * time.Hour)

	rfps := make([]*entities.RFP, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		product := products[g.fk.Number(0, len(products)-1)]

		clientName := g.fk.Company()
		terms := g.fk.RandomString(paymentTerms)
		if len(clients) > 0 && g.fk.Float64Range(0, 1) < 0.7 {
			client := clients[g.fk.Number(0, len(clients)-1)]
			clientName = client.ClientName
			terms = client.PaymentTerms
		}

		deadline := today.AddDate(0, 0, g.fk.Number(-15, 120))
		city := g.fk.City()

		rfp := &entities.RFP{
			ID:                 fmt.Sprintf("RFP-%04d", i+1),
			Title:              fmt.Sprintf("%s %s", city, g.fk.RandomString(projectKinds)),
			ClientName:         clientName,
			DeliveryLocation:   city,
			DistanceKm:         float64(g.fk.Number(50, 2500)),
			SubmissionDeadline: &deadline,
			PaymentTerms:       terms,
			Archived:           g.fk.Float64Range(0, 1) < g.cfg.ArchiveChance,
			LineItems: []entities.RFPLineItem{{
				LotID:          "LOT-1",
				RawDescription: product.ProductName,
				Quantity:       float64(g.fk.Number(1, 20) * 500),
				Unit:           "m",
				Requirements:   g.requirements(product),
			}},
		}
		if err := entities.Validate(rfp); err != nil {
			return nil, fmt.Errorf("generated rfp %s: %w", rfp.ID, err)
		}
		rfps = append(rfps, rfp)
	}
	return rfps, nil
}

// requirements copies the product's specs, leaving some of them open
func (g *Generator) requirements(product *entities.ProductSKU) entities.Requirements {
	reqs := make(entities.Requirements, len(product.TechnicalSpecs))
	for _, field := range requirementOrder {
		value, ok := product.TechnicalSpecs[field]
		if !ok {
			continue
		}
		if field != entities.ReqVoltageGrade && g.fk.Float64Range(0, 1) < g.cfg.UnspecifiedChance {
			value = entities.NotSpecified
		}
		if list, ok := value.([]any); ok {
			value = append([]any(nil), list...)
		}
		reqs[field] = value
	}
	return reqs
}

// requirementOrder fixes the draw order so a seed yields the same portfolio
var requirementOrder = []string{
	entities.ReqVoltageGrade,
	entities.ReqCoreCount,
	entities.ReqCrossSection,
	entities.ReqConductorMaterial,
	entities.ReqInsulation,
	entities.ReqSheath,
	entities.ReqArmourType,
	entities.ReqStandards,
}
