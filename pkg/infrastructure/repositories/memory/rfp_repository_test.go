package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

func newTestRFP(id string) *entities.RFP {
	return &entities.RFP{
		ID:               id,
		ClientName:       "State Power Corp",
		DeliveryLocation: "Jaipur",
		LineItems: []entities.RFPLineItem{
			{
				LotID:    "LOT-1",
				Quantity: 5000,
				Requirements: entities.Requirements{
					entities.ReqVoltageGrade: "1.1kV",
				},
			},
		},
	}
}

func TestRFPRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()

	if err := repo.SaveRFP(ctx, newTestRFP("RFP-001")); err != nil {
		t.Fatalf("Failed to save rfp: %v", err)
	}

	retrieved, err := repo.GetRFP(ctx, "RFP-001")
	if err != nil {
		t.Fatalf("Failed to get rfp: %v", err)
	}
	if retrieved.ClientName != "State Power Corp" {
		t.Errorf("Expected client State Power Corp, got %s", retrieved.ClientName)
	}
	if len(retrieved.LineItems) != 1 {
		t.Fatalf("Expected 1 line item, got %d", len(retrieved.LineItems))
	}

	// Mutating the returned copy must not leak into the store
	retrieved.LineItems[0].Requirements[entities.ReqVoltageGrade] = "33kV"
	again, _ := repo.GetRFP(ctx, "RFP-001")
	if got := again.LineItems[0].Requirements[entities.ReqVoltageGrade]; got != "1.1kV" {
		t.Errorf("Expected stored voltage 1.1kV, got %v", got)
	}
}

func TestRFPRepository_GetMissing(t *testing.T) {
	repo := NewRFPRepository()

	_, err := repo.GetRFP(context.Background(), "NOPE")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRFPRepository_SaveRejectsEmptyID(t *testing.T) {
	repo := NewRFPRepository()

	err := repo.SaveRFP(context.Background(), &entities.RFP{})
	if err == nil {
		t.Fatal("Expected error for empty rfp id")
	}
}

func TestRFPRepository_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()

	for _, id := range []string{"RFP-003", "RFP-001", "RFP-002"} {
		if err := repo.SaveRFP(ctx, newTestRFP(id)); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}
	// Replacing a record keeps its position
	replacement := newTestRFP("RFP-001")
	replacement.Title = "updated"
	if err := repo.SaveRFP(ctx, replacement); err != nil {
		t.Fatalf("Failed to replace rfp: %v", err)
	}

	rfps, err := repo.ListRFPs(ctx)
	if err != nil {
		t.Fatalf("Failed to list rfps: %v", err)
	}
	expected := []string{"RFP-003", "RFP-001", "RFP-002"}
	if len(rfps) != len(expected) {
		t.Fatalf("Expected %d rfps, got %d", len(expected), len(rfps))
	}
	for i, id := range expected {
		if rfps[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, rfps[i].ID)
		}
	}
	if rfps[1].Title != "updated" {
		t.Errorf("Expected replaced title, got %q", rfps[1].Title)
	}
}

func TestRFPRepository_UpdateRFP(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()
	_ = repo.SaveRFP(ctx, newTestRFP("RFP-001"))

	err := repo.UpdateRFP(ctx, "RFP-001", func(rfp *entities.RFP) error {
		rfp.Archived = true
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to update rfp: %v", err)
	}
	got, _ := repo.GetRFP(ctx, "RFP-001")
	if !got.Archived {
		t.Error("Expected rfp to be archived")
	}
}

func TestRFPRepository_UpdateRFPErrorDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()
	_ = repo.SaveRFP(ctx, newTestRFP("RFP-001"))

	boom := errors.New("boom")
	err := repo.UpdateRFP(ctx, "RFP-001", func(rfp *entities.RFP) error {
		rfp.Archived = true
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected callback error, got %v", err)
	}
	got, _ := repo.GetRFP(ctx, "RFP-001")
	if got.Archived {
		t.Error("Expected failed update to leave rfp unchanged")
	}
}

func TestRFPRepository_UpdateRFPCannotChangeID(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()
	_ = repo.SaveRFP(ctx, newTestRFP("RFP-001"))

	err := repo.UpdateRFP(ctx, "RFP-001", func(rfp *entities.RFP) error {
		rfp.ID = "RFP-999"
		return nil
	})
	if err == nil {
		t.Fatal("Expected error when changing rfp id")
	}
	if _, err := repo.GetRFP(ctx, "RFP-999"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected RFP-999 to be absent, got %v", err)
	}
}

func TestRFPRepository_UpdateMissing(t *testing.T) {
	repo := NewRFPRepository()

	err := repo.UpdateRFP(context.Background(), "NOPE", func(*entities.RFP) error { return nil })
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRFPRepository_UpdateAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()
	_ = repo.LoadRFPs([]*entities.RFP{newTestRFP("A"), newTestRFP("B")})

	err := repo.UpdateAll(ctx, func(rfps []*entities.RFP) error {
		for i, rfp := range rfps {
			rfp.Priority = &entities.PriorityEntry{RFPID: rfp.ID, Rank: i + 1}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to update all: %v", err)
	}

	rfps, _ := repo.ListRFPs(ctx)
	for i, rfp := range rfps {
		if rfp.Priority == nil || rfp.Priority.Rank != i+1 {
			t.Errorf("Expected %s to have rank %d, got %+v", rfp.ID, i+1, rfp.Priority)
		}
	}

	// A failing batch leaves every record untouched
	_ = repo.UpdateAll(ctx, func(rfps []*entities.RFP) error {
		rfps[0].Priority.Rank = 99
		return fmt.Errorf("abort")
	})
	first, _ := repo.GetRFP(ctx, "A")
	if first.Priority.Rank != 1 {
		t.Errorf("Expected rank 1 after aborted batch, got %d", first.Priority.Rank)
	}
}

func TestRFPRepository_ConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := NewRFPRepository()
	_ = repo.SaveRFP(ctx, newTestRFP("RFP-001"))

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.UpdateRFP(ctx, "RFP-001", func(rfp *entities.RFP) error {
				rfp.LineItems[0].Quantity++
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := repo.GetRFP(ctx, "RFP-001")
	if got.LineItems[0].Quantity != 5000+writers {
		t.Errorf("Expected quantity %d, got %v", 5000+writers, got.LineItems[0].Quantity)
	}
}
