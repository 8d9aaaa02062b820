package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// Flat reference tables that may be overridden from CSV
const (
	MaterialsFile       = "materials.csv"
	ZonesFile           = "zones.csv"
	ClientsFile         = "clients.csv"
	FactoryScheduleFile = "factory_schedule.csv"
)

var (
	materialsHeader = []string{"material_id", "material_name", "base_cost_per_unit", "current_market_factor", "volatility_risk_level"}
	zonesHeader     = []string{"zone_code", "zone_type", "transport_rate_per_ton_km", "surcharge_multiplier", "risk_factor_percent"}
	clientsHeader   = []string{"client_name", "payment_terms", "loyalty_status"}
	scheduleHeader  = []string{"production_line_id", "utilization_percent"}
)

// Loader handles loading reference tables from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// readTable reads a CSV file, checks its header and returns the data rows
func readTable(filename, table string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", table, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", table, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", table)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", table, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", table, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

// LoadMaterials loads the material master from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	rows, err := readTable(filename, "materials", materialsHeader)
	if err != nil {
		return nil, err
	}

	materials := make([]*entities.Material, 0, len(rows))
	for i, record := range rows {
		material, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		materials = append(materials, material)
	}
	return materials, nil
}

// LoadZones loads logistics zones from a CSV file. Risk is a fraction.
func (l *Loader) LoadZones(filename string) ([]*entities.LogisticsZone, error) {
	rows, err := readTable(filename, "zones", zonesHeader)
	if err != nil {
		return nil, err
	}

	zones := make([]*entities.LogisticsZone, 0, len(rows))
	for i, record := range rows {
		zone, err := parseZone(record)
		if err != nil {
			return nil, fmt.Errorf("zones CSV row %d: %w", i+2, err)
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// LoadClients loads the client master from a CSV file
func (l *Loader) LoadClients(filename string) ([]*entities.Client, error) {
	rows, err := readTable(filename, "clients", clientsHeader)
	if err != nil {
		return nil, err
	}

	clients := make([]*entities.Client, 0, len(rows))
	for i, record := range rows {
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("clients CSV row %d: client name cannot be empty", i+2)
		}
		clients = append(clients, &entities.Client{
			ClientName:    name,
			PaymentTerms:  strings.TrimSpace(record[1]),
			LoyaltyStatus: strings.TrimSpace(record[2]),
		})
	}
	return clients, nil
}

// LoadFactorySchedule loads production line utilization from a CSV file
func (l *Loader) LoadFactorySchedule(filename string) ([]*entities.FactoryBatch, error) {
	rows, err := readTable(filename, "factory schedule", scheduleHeader)
	if err != nil {
		return nil, err
	}

	batches := make([]*entities.FactoryBatch, 0, len(rows))
	for i, record := range rows {
		utilization, err := parseFloat(record[1], "utilization_percent")
		if err != nil {
			return nil, fmt.Errorf("factory schedule CSV row %d: %w", i+2, err)
		}
		batch, err := entities.NewFactoryBatch(strings.TrimSpace(record[0]), utilization)
		if err != nil {
			return nil, fmt.Errorf("factory schedule CSV row %d: %w", i+2, err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return v, nil
}

func parseMaterial(record []string) (*entities.Material, error) {
	baseCost, err := parseFloat(record[2], "base_cost_per_unit")
	if err != nil {
		return nil, err
	}
	factor, err := parseFloat(record[3], "current_market_factor")
	if err != nil {
		return nil, err
	}
	return entities.NewMaterial(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), baseCost, factor, strings.TrimSpace(record[4]))
}

func parseZone(record []string) (*entities.LogisticsZone, error) {
	rate, err := parseFloat(record[2], "transport_rate_per_ton_km")
	if err != nil {
		return nil, err
	}
	surcharge, err := parseFloat(record[3], "surcharge_multiplier")
	if err != nil {
		return nil, err
	}
	risk, err := parseFloat(record[4], "risk_factor_percent")
	if err != nil {
		return nil, err
	}
	return entities.NewLogisticsZone(strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), rate, surcharge, risk)
}
