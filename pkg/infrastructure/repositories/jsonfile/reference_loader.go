package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	csvloader "github.com/vsinha/bidengine/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/memory"
)

// Reference data file names inside a data directory
const (
	ProductsFile        = "product_master.json"
	MaterialsFile       = "material_master.json"
	ZonesFile           = "logistic_master.json"
	ClientsFile         = "client_master.json"
	CompetitorsFile     = "competitors.json"
	TestsFile           = "test_master.json"
	FactoryScheduleFile = "factory_production_schedule.json"
)

// productRecord accepts the weight either flat or under performance_data
type productRecord struct {
	entities.ProductSKU
	PerformanceData struct {
		ApproxWeightKgKm float64 `json:"approx_weight_kg_km"`
	} `json:"performance_data"`
}

// ReferenceLoader reads the reference tables of a data directory. A missing
// table loads empty and the engine falls back to its estimates; a malformed
// one is an error. CSV files for the flat tables replace their JSON version.
type ReferenceLoader struct {
	dir    string
	csv    *csvloader.Loader
	logger *zap.Logger
}

// NewReferenceLoader creates a loader over an existing directory
func NewReferenceLoader(dir string, logger *zap.Logger) (*ReferenceLoader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path %s is not a directory", dir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceLoader{dir: dir, csv: csvloader.NewLoader(), logger: logger}, nil
}

// Load reads every table into a fresh reference repository
func (l *ReferenceLoader) Load() (*memory.ReferenceRepository, error) {
	records, err := readTable[productRecord](l, ProductsFile)
	if err != nil {
		return nil, err
	}
	products := make([]*entities.ProductSKU, 0, len(records))
	for _, r := range records {
		p := r.ProductSKU
		if p.WeightKgPerKm == 0 {
			p.WeightKgPerKm = r.PerformanceData.ApproxWeightKgKm
		}
		products = append(products, &p)
	}

	materials, err := readFlat(l, MaterialsFile, csvloader.MaterialsFile, l.csv.LoadMaterials)
	if err != nil {
		return nil, err
	}
	zones, err := readFlat(l, ZonesFile, csvloader.ZonesFile, l.csv.LoadZones)
	if err != nil {
		return nil, err
	}
	clients, err := readFlat(l, ClientsFile, csvloader.ClientsFile, l.csv.LoadClients)
	if err != nil {
		return nil, err
	}
	batches, err := readFlat(l, FactoryScheduleFile, csvloader.FactoryScheduleFile, l.csv.LoadFactorySchedule)
	if err != nil {
		return nil, err
	}
	competitors, err := readPointers[entities.Competitor](l, CompetitorsFile)
	if err != nil {
		return nil, err
	}
	tests, err := readPointers[entities.TestRecord](l, TestsFile)
	if err != nil {
		return nil, err
	}

	ref := memory.NewReferenceRepository(len(products), len(materials))
	loads := []struct {
		table string
		load  func() error
	}{
		{"products", func() error { return ref.LoadProducts(products) }},
		{"materials", func() error { return ref.LoadMaterials(materials) }},
		{"zones", func() error { return ref.LoadZones(zones) }},
		{"clients", func() error { return ref.LoadClients(clients) }},
		{"competitors", func() error { return ref.LoadCompetitors(competitors) }},
		{"tests", func() error { return ref.LoadTests(tests) }},
		{"factory schedule", func() error { return ref.LoadFactoryBatches(batches) }},
	}
	for _, step := range loads {
		if err := step.load(); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", step.table, err)
		}
	}

	l.logger.Info("reference data loaded",
		zap.String("dir", l.dir),
		zap.Int("products", len(products)),
		zap.Int("materials", len(materials)),
		zap.Int("zones", len(zones)),
		zap.Int("clients", len(clients)),
		zap.Int("competitors", len(competitors)),
		zap.Int("tests", len(tests)),
		zap.Int("factory_lines", len(batches)))
	return ref, nil
}

// readTable decodes a JSON array file and validates every record
func readTable[T any](l *ReferenceLoader, name string) ([]T, error) {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("reference table missing, using fallbacks", zap.String("file", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for i := range records {
		if err := entities.Validate(&records[i]); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", name, i, err)
		}
	}
	return records, nil
}

func readPointers[T any](l *ReferenceLoader, name string) ([]*T, error) {
	records, err := readTable[T](l, name)
	if err != nil {
		return nil, err
	}
	out := make([]*T, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}

// readFlat prefers a CSV override over the JSON table
func readFlat[T any](l *ReferenceLoader, jsonName, csvName string, loadCSV func(string) ([]*T, error)) ([]*T, error) {
	csvPath := filepath.Join(l.dir, csvName)
	if _, err := os.Stat(csvPath); err == nil {
		records, err := loadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		for i, r := range records {
			if err := entities.Validate(r); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", csvName, i+2, err)
			}
		}
		l.logger.Info("reference table overridden from CSV", zap.String("file", csvName), zap.Int("records", len(records)))
		return records, nil
	}
	return readPointers[T](l, jsonName)
}
