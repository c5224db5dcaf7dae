package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidPalletCode(t *testing.T) {
	valid := []string{"PAL-00001", "PAL-99999", "PAL-00042_1-2", "PAL-00042_2-2", "PAL-00042_10-12"}
	for _, code := range valid {
		assert.True(t, ValidPalletCode(code), "código: %q", code)
	}

	invalid := []string{"PAL-1", "PAL-000001", "pal-00001", "PAL-00001_0-2", "PAL-00001_1-0", "PAL-00001_1_2", "PAL00001", "PAL-00001_"}
	for _, code := range invalid {
		assert.False(t, ValidPalletCode(code), "código: %q", code)
	}
}

func TestPalletCode_Montagem(t *testing.T) {
	assert.Equal(t, "PAL-00042", PalletCode(42))
	assert.Equal(t, "PAL-00042_1-3", SplitPalletCode(42, 1, 3))
	assert.True(t, ValidPalletCode(PalletCode(7)))
	assert.True(t, ValidPalletCode(SplitPalletCode(7, 2, 3)))
}

func TestLoad_Totals(t *testing.T) {
	load := &Load{ID: "l1", Destination: "SAO PAULO"}
	pallets := []*Pallet{
		{LoadID: "l1", InvoiceCount: 10, VolumeCount: 30, GrossWeight: decimal.NewFromFloat(120.5)},
		{LoadID: "l1", InvoiceCount: 5, VolumeCount: 12, GrossWeight: decimal.NewFromFloat(44.25), Status: PalletStatusShipped},
		{LoadID: "outra", InvoiceCount: 99, VolumeCount: 99, GrossWeight: decimal.NewFromInt(999)},
	}

	totals := load.Totals(pallets)
	assert.Equal(t, 2, totals.Pallets, "palete de outra carga não conta")
	assert.Equal(t, 15, totals.Invoices)
	assert.Equal(t, 42, totals.Volumes)
	assert.True(t, totals.GrossWeight.Equal(decimal.NewFromFloat(164.75)),
		"peso bruto soma com decimal exato; palete expedido continua contando")
}

func TestPosition_Consistent(t *testing.T) {
	occupied := &Position{Status: PositionStatusOccupied, PalletID: "p1"}
	assert.True(t, occupied.Consistent())

	orphan := &Position{Status: PositionStatusOccupied}
	assert.False(t, orphan.Consistent(), "ocupada exige palete")

	freeWithPallet := &Position{Status: PositionStatusAvailable, PalletID: "p1"}
	assert.False(t, freeWithPallet.Consistent(), "livre não referencia palete")

	blocked := &Position{Status: PositionStatusBlocked}
	assert.True(t, blocked.Consistent())
}
