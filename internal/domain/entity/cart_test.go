package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logfarma/armazem-api/internal/domain"
)

func newScanningCart() *Cart {
	now := time.Now()
	return &Cart{
		ID:        NewCartID(CartPrefixPacking, "c1"),
		Name:      "Carro 1",
		Status:    CartStatusScanning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func entryWith(id string, status EntryStatus) *InvoiceEntry {
	return &InvoiceEntry{
		ID:            id,
		InvoiceNumber: "NF-" + id,
		Status:        status,
		ScannedAt:     time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Append / RemoveEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_Append_MaisRecentePrimeiro(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))
	require.NoError(t, c.Append(entryWith("b", EntryStatusValid)))

	require.Len(t, c.Entries, 2)
	assert.Equal(t, "b", c.Entries[0].ID, "a última bipagem fica no topo")
	assert.Equal(t, "a", c.Entries[1].ID)
	assert.Equal(t, c.ID, c.Entries[0].CartID)
}

func TestCart_Append_CarroTravado(t *testing.T) {
	c := newScanningCart()
	c.Status = CartStatusPacking

	err := c.Append(entryWith("a", EntryStatusValid))
	var locked *domain.LockedCartError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, c.ID, locked.CartID)
	assert.Equal(t, string(CartStatusPacking), locked.Status)
	assert.Empty(t, c.Entries, "nada gravado em carro travado")
}

func TestCart_RemoveEntry(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))
	require.NoError(t, c.Append(entryWith("b", EntryStatusDuplicate)))

	removed, err := c.RemoveEntry("a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.ID)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, "b", c.Entries[0].ID)

	_, err = c.RemoveEntry("inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCart_RemoveEntry_CarroTravado(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))
	c.Status = CartStatusFinalized

	_, err := c.RemoveEntry("a")
	var locked *domain.LockedCartError
	assert.ErrorAs(t, err, &locked)
	assert.Len(t, c.Entries, 1, "remoção bloqueada não muda nada")
}

func TestCart_HasInvoice(t *testing.T) {
	c := newScanningCart()
	e := entryWith("a", EntryStatusDuplicate) // status não importa
	e.InvoiceNumber = "000123"
	require.NoError(t, c.Append(e))

	assert.True(t, c.HasInvoice("000123"))
	assert.False(t, c.HasInvoice("999999"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize / StartPacking / Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_Finalize_ComPendencias(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))
	require.NoError(t, c.Append(entryWith("b", EntryStatusInvalidFormat)))
	require.NoError(t, c.Append(entryWith("c", EntryStatusInvalid)))

	err := c.Finalize()
	var transition *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, 2, transition.Blocking, "a contagem de pendências vai no erro")
	assert.Equal(t, CartStatusScanning, c.Status, "o carro permanece em bipagem")
}

func TestCart_Finalize_SemNotaValida(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusDuplicate)))

	err := c.Finalize()
	var transition *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, CartStatusScanning, c.Status)
}

func TestCart_Finalize_DuplicataNaoBloqueia(t *testing.T) {
	// Duplicata no carro é trilha de auditoria, não pendência.
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))
	require.NoError(t, c.Append(entryWith("b", EntryStatusDuplicate)))

	require.NoError(t, c.Finalize())
	assert.Equal(t, CartStatusFinalized, c.Status)
}

func TestCart_CicloCompleto(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))

	require.NoError(t, c.Finalize())
	require.NoError(t, c.StartPacking())
	assert.True(t, c.Locked())
	require.NoError(t, c.Complete())
	assert.Equal(t, CartStatusCompleted, c.Status)
}

func TestCart_TransicoesForaDeOrdem(t *testing.T) {
	c := newScanningCart()
	require.NoError(t, c.Append(entryWith("a", EntryStatusValid)))

	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, c.StartPacking(), &transition, "embalar exige finalizado")
	assert.ErrorAs(t, c.Complete(), &transition, "concluir exige embalando")

	require.NoError(t, c.Finalize())
	assert.ErrorAs(t, c.Finalize(), &transition, "finalizar duas vezes não é permitido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumos derivados
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_FinalDestinations_DistintosNaOrdemDeBipagem(t *testing.T) {
	c := newScanningCart()
	for i, dest := range []string{"SAO PAULO", "CAMPINAS", "SAO PAULO"} {
		e := entryWith(string(rune('a'+i)), EntryStatusValid)
		e.FinalDestination = dest
		require.NoError(t, c.Append(e))
	}
	divergent := entryWith("x", EntryStatusDivergent)
	divergent.FinalDestination = "SANTOS"
	require.NoError(t, c.Append(divergent))

	assert.Equal(t, []string{"SAO PAULO", "CAMPINAS"}, c.FinalDestinations(),
		"apenas notas válidas, sem repetição, na ordem de chegada")
}

func TestCart_CargoTypes_ConsideraAdmitidas(t *testing.T) {
	c := newScanningCart()
	rod := entryWith("a", EntryStatusValid)
	rod.CargoType = CargoTypeROD
	require.NoError(t, c.Append(rod))

	rejected := entryWith("b", EntryStatusInvalid)
	rejected.CargoType = CargoTypeCON
	require.NoError(t, c.Append(rejected))

	types := c.CargoTypes()
	assert.True(t, types[CargoTypeROD])
	assert.False(t, types[CargoTypeCON], "nota rejeitada não trava o tipo do carro")
}

func TestNewCartID_Idempotente(t *testing.T) {
	id := NewCartID(CartPrefixWMS, "abc")
	assert.Equal(t, "WMS_abc", id)
	assert.Equal(t, "WMS_abc", NewCartID(CartPrefixWMS, id), "prefixo não duplica")
}
