package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/infrastructure/memory"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	ledger    *storage.LedgerUseCase
	positions *memory.PositionStore
	pallets   *memory.PalletStore
	loads     *memory.LoadStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	positions := memory.NewPositionStore()
	pallets := memory.NewPalletStore()
	loads := memory.NewLoadStore()
	tx := memory.NewStorageTxRunner(positions, pallets)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return &fixture{
		ledger:    storage.NewLedgerUseCase(tx, positions, pallets, loads, log),
		positions: positions,
		pallets:   pallets,
		loads:     loads,
	}
}

func (f *fixture) position(t *testing.T, code string, level int, dest string) *entity.Position {
	t.Helper()
	p, err := f.ledger.CreatePosition(context.Background(), storage.CreatePositionInput{
		Code: code, Level: level, PreferredDestination: dest,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) load(t *testing.T, destination string) *entity.Load {
	t.Helper()
	l, err := f.ledger.CreateLoad(context.Background(), destination, "Cliente X")
	require.NoError(t, err)
	return l
}

func (f *fixture) pallet(t *testing.T, code, loadID string) *entity.Pallet {
	t.Helper()
	p, err := f.ledger.CreatePallet(context.Background(), storage.CreatePalletInput{
		Code: code, LoadID: loadID, InvoiceCount: 4, VolumeCount: 10,
		GrossWeight: decimal.NewFromFloat(80.5),
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Cadastro
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePallet_CodigoInvalido(t *testing.T) {
	f := newFixture(t)
	l := f.load(t, "SAO PAULO")

	_, err := f.ledger.CreatePallet(context.Background(), storage.CreatePalletInput{
		Code: "PAL-1", LoadID: l.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePallet_CargaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.CreatePallet(context.Background(), storage.CreatePalletInput{
		Code: "PAL-00001", LoadID: "nope",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadTotals_RecomputadosDosPaletes(t *testing.T) {
	f := newFixture(t)
	l := f.load(t, "SAO PAULO")
	f.pallet(t, "PAL-00001", l.ID)
	f.pallet(t, "PAL-00002", l.ID)

	totals, err := f.ledger.LoadTotals(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Pallets)
	assert.Equal(t, 8, totals.Invoices)
	assert.Equal(t, 20, totals.Volumes)
	assert.True(t, totals.GrossWeight.Equal(decimal.NewFromFloat(161.0)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ocupação / liberação
// ──────────────────────────────────────────────────────────────────────────────

func TestOccupyAll_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)
	pos := f.position(t, "A-01-01", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, pallet.ID, []string{pos.ID}))

	got, err := f.positions.GetByID(ctx, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PositionStatusOccupied, got.Status)
	assert.Equal(t, pallet.ID, got.PalletID)
	assert.True(t, got.Consistent())

	stored, err := f.ledger.GetPallet(ctx, pallet.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PalletStatusStored, stored.Status)
	assert.Equal(t, []string{pos.ID}, stored.PositionIDs, "o conjunto é derivado das posições")

	require.NoError(t, f.ledger.ReleaseAll(ctx, pallet.ID))

	got, _ = f.positions.GetByID(ctx, pos.ID)
	assert.Equal(t, entity.PositionStatusAvailable, got.Status)
	assert.Empty(t, got.PalletID)

	shipped, _ := f.ledger.GetPallet(ctx, pallet.ID)
	assert.Equal(t, entity.PalletStatusShipped, shipped.Status)
	assert.Empty(t, shipped.PositionIDs, "palete expedido não referencia posição alguma")
}

func TestOccupyAll_ConjuntoAtomico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001_1-2", l.ID)
	a := f.position(t, "A-01-01", 0, "")
	b := f.position(t, "A-01-02", 0, "")

	// A segunda posição está bloqueada: nada do conjunto pode ser ocupado.
	require.NoError(t, f.ledger.BlockPosition(ctx, b.ID, "avaria na estrutura"))

	err := f.ledger.OccupyAll(ctx, pallet.ID, []string{a.ID, b.ID})
	require.Error(t, err)

	gotA, _ := f.positions.GetByID(ctx, a.ID)
	assert.Equal(t, entity.PositionStatusAvailable, gotA.Status,
		"ou todas as posições, ou nenhuma")
	stored, _ := f.pallets.GetByID(ctx, pallet.ID)
	assert.Equal(t, entity.PalletStatusAwaiting, stored.Status)
}

func TestReleaseAll_PaleteSemPosicao(t *testing.T) {
	f := newFixture(t)
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)

	err := f.ledger.ReleaseAll(context.Background(), pallet.ID)
	assert.ErrorIs(t, err, domain.ErrPalletNotStored)
}

func TestOccupy_PosicaoJaOcupada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	first := f.pallet(t, "PAL-00001", l.ID)
	second := f.pallet(t, "PAL-00002", l.ID)
	pos := f.position(t, "A-01-01", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, first.ID, []string{pos.ID}))

	err := f.ledger.OccupyAll(ctx, second.ID, []string{pos.ID})
	assert.ErrorIs(t, err, domain.ErrPositionUnavailable)

	got, _ := f.positions.GetByID(ctx, pos.ID)
	assert.Equal(t, first.ID, got.PalletID, "o primeiro ocupante permanece")
	stored, _ := f.pallets.GetByID(ctx, second.ID)
	assert.Equal(t, entity.PalletStatusAwaiting, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferência
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MovePalete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)
	from := f.position(t, "A-01-01", 0, "")
	to := f.position(t, "B-02-03", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, pallet.ID, []string{from.ID}))
	require.NoError(t, f.ledger.Transfer(ctx, pallet.ID, from.ID, to.ID))

	gotFrom, _ := f.positions.GetByID(ctx, from.ID)
	gotTo, _ := f.positions.GetByID(ctx, to.ID)
	assert.Equal(t, entity.PositionStatusAvailable, gotFrom.Status)
	assert.Equal(t, entity.PositionStatusOccupied, gotTo.Status)
	assert.Equal(t, pallet.ID, gotTo.PalletID)
}

func TestTransfer_DestinoOcupado_OrigemPermanece(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)
	other := f.pallet(t, "PAL-00002", l.ID)
	from := f.position(t, "A-01-01", 0, "")
	to := f.position(t, "B-02-03", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, pallet.ID, []string{from.ID}))
	require.NoError(t, f.ledger.OccupyAll(ctx, other.ID, []string{to.ID}))

	err := f.ledger.Transfer(ctx, pallet.ID, from.ID, to.ID)
	require.Error(t, err)

	// A liberação da origem foi desfeita junto: o palete nunca fica sem posição.
	gotFrom, _ := f.positions.GetByID(ctx, from.ID)
	assert.Equal(t, entity.PositionStatusOccupied, gotFrom.Status)
	assert.Equal(t, pallet.ID, gotFrom.PalletID)
}

func TestTransfer_OrigemDeOutroPalete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)
	other := f.pallet(t, "PAL-00002", l.ID)
	pos := f.position(t, "A-01-01", 0, "")
	to := f.position(t, "B-02-03", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, other.ID, []string{pos.ID}))

	err := f.ledger.Transfer(ctx, pallet.ID, pos.ID, to.ID)
	assert.ErrorIs(t, err, domain.ErrPositionUnavailable,
		"transferir exige que a origem guarde o palete informado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueio
// ──────────────────────────────────────────────────────────────────────────────

func TestBlock_SomenteLivre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.load(t, "SAO PAULO")
	pallet := f.pallet(t, "PAL-00001", l.ID)
	pos := f.position(t, "A-01-01", 0, "")

	require.NoError(t, f.ledger.OccupyAll(ctx, pallet.ID, []string{pos.ID}))
	assert.ErrorIs(t, f.ledger.BlockPosition(ctx, pos.ID, "manutenção"), domain.ErrPositionUnavailable)
}

func TestBlock_ForaDasDisponiveis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.position(t, "A-01-01", 0, "")
	f.position(t, "A-01-02", 0, "")
	f.position(t, "B-01-01", 1, "")

	require.NoError(t, f.ledger.BlockPosition(ctx, a.ID, "manutenção"))

	available, err := f.positions.ListAvailable(ctx, -1)
	require.NoError(t, err)
	require.Len(t, available, 2, "bloqueada não aparece")

	level0, err := f.positions.ListAvailable(ctx, 0)
	require.NoError(t, err)
	require.Len(t, level0, 1)
	assert.Equal(t, "A-01-02", level0[0].Code)

	require.NoError(t, f.ledger.UnblockPosition(ctx, a.ID))
	available, _ = f.positions.ListAvailable(ctx, -1)
	assert.Len(t, available, 3)
}
