package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

func openStore(t *testing.T, path string) *RFPStore {
	t.Helper()
	store, err := NewRFPStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func rfp(id string) *entities.RFP {
	return &entities.RFP{
		ID:         id,
		ClientName: "Metro Rail Ltd",
		LineItems:  []entities.RFPLineItem{{LotID: "LOT-1", Quantity: 2000}},
	}
}

func TestRFPStore_SaveListOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bids.db")
	store := openStore(t, path)

	require.NoError(t, store.SaveRFP(ctx, rfp("RFP-B")))
	require.NoError(t, store.SaveRFP(ctx, rfp("RFP-A")))

	updated := rfp("RFP-B")
	updated.ClientName = "State Power Corp"
	require.NoError(t, store.SaveRFP(ctx, updated))

	rfps, err := store.ListRFPs(ctx)
	require.NoError(t, err)
	require.Len(t, rfps, 2)
	assert.Equal(t, "RFP-B", rfps[0].ID, "replacing a record keeps its position")
	assert.Equal(t, "State Power Corp", rfps[0].ClientName)

	require.NoError(t, store.Close())
	reopened := openStore(t, path)
	got, err := reopened.GetRFP(ctx, "RFP-A")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.LineItems[0].Quantity)
}

func TestRFPStore_UpdateRFP(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "bids.db"))
	require.NoError(t, store.SaveRFP(ctx, rfp("RFP-1")))

	require.NoError(t, store.UpdateRFP(ctx, "RFP-1", func(r *entities.RFP) error {
		r.Bid = &entities.BidComputation{RFPID: r.ID, FinalBidValue: decimal.RequireFromString("1240000.50")}
		return nil
	}))
	got, err := store.GetRFP(ctx, "RFP-1")
	require.NoError(t, err)
	require.NotNil(t, got.Bid)
	assert.True(t, got.Bid.FinalBidValue.Equal(decimal.RequireFromString("1240000.50")))

	boom := errors.New("boom")
	assert.ErrorIs(t, store.UpdateRFP(ctx, "RFP-1", func(r *entities.RFP) error {
		r.Bid = nil
		return boom
	}), boom)
	got, _ = store.GetRFP(ctx, "RFP-1")
	assert.NotNil(t, got.Bid, "rolled back update keeps the prior value")

	_, err = store.GetRFP(ctx, "RFP-404")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, store.UpdateRFP(ctx, "RFP-404", func(*entities.RFP) error { return nil }), repositories.ErrNotFound)
}

func TestRFPStore_UpdateAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "bids.db"))
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.SaveRFP(ctx, rfp(fmt.Sprintf("RFP-%d", i))))
	}

	require.NoError(t, store.UpdateAll(ctx, func(rfps []*entities.RFP) error {
		for i, r := range rfps {
			r.Priority = &entities.PriorityEntry{RFPID: r.ID, Rank: i + 1}
		}
		return nil
	}))

	err := store.UpdateAll(ctx, func(rfps []*entities.RFP) error {
		rfps[0].Priority.Rank = 99
		return errors.New("abort")
	})
	require.Error(t, err)

	rfps, err := store.ListRFPs(ctx)
	require.NoError(t, err)
	for i, r := range rfps {
		require.NotNil(t, r.Priority)
		assert.Equal(t, i+1, r.Priority.Rank)
	}
}

func TestRFPStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "bids.db"))
	require.NoError(t, store.SaveRFP(ctx, rfp("RFP-1")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.UpdateRFP(ctx, "RFP-1", func(r *entities.RFP) error {
				r.LineItems[0].Quantity++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetRFP(ctx, "RFP-1")
	require.NoError(t, err)
	assert.Equal(t, 2020.0, got.LineItems[0].Quantity)
}
