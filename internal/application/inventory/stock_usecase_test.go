package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// seedProduct crea un producto activo con stock 0.
func seedProduct(t *testing.T, store *memory.Store, name string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		Name:        name,
		CostPrice:   decimal.NewFromInt(5),
		SalePrice:   decimal.NewFromInt(8),
		MinQuantity: 10,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Products().Create(p))
	return p
}

func movementInput(productID string, qty int64, reason string) inventory.MovementInput {
	return inventory.MovementInput{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(5),
		Reason:    reason,
	}
}

func TestStockUseCase_CachedQuantityMatchesLedger(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewStockUseCase(store)
	p := seedProduct(t, store, "Monitor 24")
	ctx := context.Background()

	// Secuencia mixta de entradas y salidas
	steps := []struct {
		in  bool
		qty int64
	}{
		{true, 50}, {false, 12}, {true, 7}, {false, 30}, {false, 5}, {true, 3},
	}
	for _, s := range steps {
		var err error
		if s.in {
			_, err = uc.ApplyIncrease(ctx, movementInput(p.ID, s.qty, entity.ReasonPurchase))
		} else {
			_, err = uc.ApplyDecrease(ctx, movementInput(p.ID, s.qty, entity.ReasonSale))
		}
		require.NoError(t, err)
	}

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(13), got.CurrentQuantity)

	// La cantidad cacheada debe coincidir con la suma neta del ledger
	net, err := store.Movements().NetQuantity(p.ID)
	require.NoError(t, err)
	assert.Equal(t, got.CurrentQuantity, net)
}

func TestStockUseCase_InsufficientStockLeavesNoTrace(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewStockUseCase(store)
	p := seedProduct(t, store, "Teclado")
	ctx := context.Background()

	_, err := uc.ApplyIncrease(ctx, movementInput(p.ID, 5, entity.ReasonPurchase))
	require.NoError(t, err)

	_, err = uc.ApplyDecrease(ctx, movementInput(p.ID, 6, entity.ReasonSale))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni movimiento ni cambio de cantidad
	count, err := store.Movements().CountByProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CurrentQuantity)
}

func TestStockUseCase_ConcurrentDecreaseOnlyOneWins(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewStockUseCase(store)
	p := seedProduct(t, store, "Mouse")
	ctx := context.Background()

	_, err := uc.ApplyIncrease(ctx, movementInput(p.ID, 10, entity.ReasonPurchase))
	require.NoError(t, err)

	// Dos salidas de 7 sobre stock 10: exactamente una debe ganar
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyDecrease(ctx, movementInput(p.ID, 7, entity.ReasonSale))
		}(i)
	}
	wg.Wait()

	okCount := 0
	insufficientCount := 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case err == domain.ErrInsufficientStock:
			insufficientCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, insufficientCount)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CurrentQuantity)
}

func TestStockUseCase_Validation(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewStockUseCase(store)
	p := seedProduct(t, store, "Silla")
	ctx := context.Background()

	cases := []struct {
		name  string
		input inventory.MovementInput
	}{
		{"producto vacío", movementInput("", 1, entity.ReasonPurchase)},
		{"cantidad cero", movementInput(p.ID, 0, entity.ReasonPurchase)},
		{"cantidad negativa", movementInput(p.ID, -3, entity.ReasonPurchase)},
		{"motivo desconocido", movementInput(p.ID, 1, "regalo")},
		{"precio negativo", inventory.MovementInput{
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(-1),
			Reason:    entity.ReasonPurchase,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ApplyIncrease(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.ApplyIncrease(ctx, movementInput("no-existe", 1, entity.ReasonPurchase))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_DefaultActor(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewStockUseCase(store)
	p := seedProduct(t, store, "Lámpara")

	mov, err := uc.ApplyIncrease(context.Background(), movementInput(p.ID, 2, entity.ReasonAdjustment))
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultActor, mov.CreatedBy)
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
}

func TestMovementQuery_WindowAndPagination(t *testing.T) {
	store := memory.NewStore()
	stockUC := inventory.NewStockUseCase(store)
	queryUC := inventory.NewMovementQueryUseCase(store.Movements())
	p := seedProduct(t, store, "Cable HDMI")
	other := seedProduct(t, store, "Cable VGA")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := stockUC.ApplyIncrease(ctx, movementInput(p.ID, 1, entity.ReasonPurchase))
		require.NoError(t, err)
	}
	_, err := stockUC.ApplyIncrease(ctx, movementInput(other.ID, 1, entity.ReasonPurchase))
	require.NoError(t, err)

	// Filtro por producto
	out, err := queryUC.List(p.ID, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 5)

	// Paginación
	out, err = queryUC.List(p.ID, nil, nil, dto.PageRequest{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)

	// Ventana invertida
	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = queryUC.List(p.ID, &from, &to, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Ventana futura: vacía
	future := time.Now().Add(time.Hour)
	farFuture := future.Add(time.Hour)
	out, err = queryUC.List("", &future, &farFuture, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
