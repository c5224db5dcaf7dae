package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Load carga: agrupa paletes com o mesmo destino/cliente.
type Load struct {
	ID          string
	Destination string
	ClientName  string
	CreatedAt   time.Time
}

// LoadTotals agregados de uma carga, sempre recomputados a partir dos
// paletes membros (nunca armazenados como contador editável).
type LoadTotals struct {
	Pallets     int
	Invoices    int
	Volumes     int
	GrossWeight decimal.Decimal
}

// Totals recomputa os agregados da carga a partir dos paletes informados.
// Paletes expedidos continuam contando: a carga descreve o que foi montado.
func (l *Load) Totals(pallets []*Pallet) LoadTotals {
	t := LoadTotals{GrossWeight: decimal.Zero}
	for _, p := range pallets {
		if p.LoadID != l.ID {
			continue
		}
		t.Pallets++
		t.Invoices += p.InvoiceCount
		t.Volumes += p.VolumeCount
		t.GrossWeight = t.GrossWeight.Add(p.GrossWeight)
	}
	return t
}
