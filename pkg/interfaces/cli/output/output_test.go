package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/domain/entities"
)

func sampleSummaries() []dto.RFPSummary {
	deadline := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	score := 92.5
	return []dto.RFPSummary{
		{ID: "RFP-HT-001", Client: "State Power Corp", Location: "Shimla", Deadline: &deadline, MatchScore: &score, FinalBid: "4946720.83", Rank: 1, Band: entities.BandHigh},
		{ID: "RFP-LT-002", Client: "Metro Rail Ltd", Location: "Chennai", Archived: true},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, RFPTable(sampleSummaries()), Config{Format: FormatText}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "RFPs\n====\n"))
	assert.Contains(t, out, "RFP-HT-001")
	assert.Contains(t, out, "2025-03-11")
	assert.Contains(t, out, "92.50")

	buf.Reset()
	require.NoError(t, Generate(&buf, PriorityTable(nil), Config{}))
	assert.Contains(t, buf.String(), "(none)")
}

func TestGenerate_JSONUsesData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, RFPTable(sampleSummaries()), Config{Format: FormatJSON}))

	var decoded []dto.RFPSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "RFP-LT-002", decoded[1].ID)
	assert.True(t, decoded[1].Archived)
}

func TestGenerate_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, RFPTable(sampleSummaries()), Config{Format: FormatCSV}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Client,Location,Deadline,Match,Final Bid,Total+GST,Margin,Rank,Band,Archived", lines[0])
	assert.Equal(t, "RFP-HT-001,State Power Corp,Shimla,2025-03-11,92.50,4946720.83,,,1,High,false", lines[1])
	assert.Equal(t, "RFP-LT-002,Metro Rail Ltd,Chennai,,,,,,,,true", lines[2])
}

func TestGenerate_CSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rfps.csv")
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, RFPTable(sampleSummaries()), Config{Format: FormatCSV, OutputPath: path}))
	assert.Empty(t, buf.String())
	assert.FileExists(t, path)
}

func TestGenerate_XLSX(t *testing.T) {
	bid := &entities.BidComputation{
		RFPID: "RFP-HT-001",
		Cost: entities.CostBreakdown{
			BaseCost: decimal.RequireFromString("4088986"),
			Summary: []entities.CostLine{
				{Category: entities.CostMaterial, Amount: decimal.RequireFromString("2900000"), Rationale: "BOM at market"},
			},
		},
		Margin:        entities.MarginBreakdown{FinalMargin: decimal.RequireFromString("0.175")},
		FinalBidValue: decimal.RequireFromString("4946720.83"),
	}

	path := filepath.Join(t.TempDir(), "bid.xlsx")
	require.NoError(t, Generate(nil, BidTable(bid), Config{Format: FormatXLSX, OutputPath: path}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Bid RFP-HT-001"
	assert.Equal(t, []string{sheet}, f.GetSheetList())
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Item", header)
	material, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2900000", material)
	item, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "base_cost", item)
}

func TestGenerate_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, PriorityTable(nil), Config{Format: FormatXLSX})
	assert.ErrorContains(t, err, "output path required")

	err = Generate(&buf, PriorityTable(nil), Config{Format: "pdf"})
	assert.ErrorContains(t, err, "unsupported output format: pdf")
}

func TestMatchTable_GroupsCollisionsByLot(t *testing.T) {
	report := &entities.MatchReport{
		LineItems: []entities.LineItemMatch{
			{LotID: "LOT-1", Best: entities.MatchResult{ProductID: "HT-11KV-CU-3C-185", Score: 100}, Compliance: entities.ComplianceCompliant},
		},
		Collisions: []entities.CompetitorCollision{
			{LotID: "LOT-1", CompetitorID: "C-001", Competitor: "Apex Cables"},
			{LotID: "LOT-1", CompetitorID: "C-002", Competitor: "Volt Wires"},
		},
	}

	table := MatchTable("RFP-HT-001", report)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Apex Cables, Volt Wires", table.Rows[0][4])
	assert.Empty(t, MatchTable("RFP-X", nil).Rows)
}

func TestPriorityTable_ArchivedRank(t *testing.T) {
	table := PriorityTable([]entities.PriorityEntry{
		{RFPID: "RFP-1", Rank: 1, Band: entities.BandHigh, PriorityScore: 115.56},
		{RFPID: "RFP-2", Rank: -1, Band: entities.BandArchived},
	})
	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "-", table.Rows[1][0])
	assert.Equal(t, "115.56", cellText(table.Rows[0][3]))
}
