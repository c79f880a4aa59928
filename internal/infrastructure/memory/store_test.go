package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestStore_RunRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	p := &entity.Product{Name: "A", Active: true}
	require.NoError(t, store.Products().Create(p))

	boom := errors.New("boom")
	err := store.Run(context.Background(), func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		if err := movRepo.Create(&entity.StockMovement{
			ProductID: p.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  5,
			Reason:    entity.ReasonPurchase,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(p.ID, 5, time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Todo o nada: ni el movimiento ni la cantidad sobreviven al error
	count, err := store.Movements().CountByProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentQuantity)
}

func TestStore_RunCommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	p := &entity.Product{Name: "A", Active: true}
	require.NoError(t, store.Products().Create(p))

	err := store.Run(context.Background(), func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		return productRepo.UpdateQuantity(p.ID, 9, time.Now())
	})
	require.NoError(t, err)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.CurrentQuantity)
}
