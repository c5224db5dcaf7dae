package entity

import "time"

// EntryStatus status de uma nota bipada dentro do carro (conjunto fechado).
type EntryStatus string

const (
	EntryStatusValid         EntryStatus = "valida"
	EntryStatusDuplicate     EntryStatus = "duplicada"
	EntryStatusInvalid       EntryStatus = "invalida" // rejeição de política (segregação, sem recebimento)
	EntryStatusInvalidFormat EntryStatus = "formato_invalido"
	EntryStatusInvalidVolume EntryStatus = "volume_invalido"
	EntryStatusDivergent     EntryStatus = "destino_divergente"
)

// Tipos de carga aceitos na bipagem. ROD e CON nunca compartilham carro.
const (
	CargoTypeROD = "ROD"
	CargoTypeCON = "CON"
)

// InvoiceEntry uma bipagem registrada no carro (admitida ou rejeitada, para auditoria).
// Imutável após a criação, exceto o flag Read (revisão do operador).
type InvoiceEntry struct {
	ID               string
	CartID           string
	InvoiceNumber    string
	Code             string // código completo bipado
	Volume           int
	DestinationCode  string
	SupplierName     string
	FinalDestination string
	CargoType        string
	Status           EntryStatus
	ErrorDetail      string
	Read             bool
	ScannedAt        time.Time
	ScannedBy        string
}

// Admitted informa se a nota entrou no carro como carga a embalar
// (válida ou divergente de destino; divergência sinaliza, não bloqueia).
func (e *InvoiceEntry) Admitted() bool {
	return e.Status == EntryStatusValid || e.Status == EntryStatusDivergent
}

// Blocking informa se a nota impede a finalização do carro.
func (e *InvoiceEntry) Blocking() bool {
	switch e.Status {
	case EntryStatusInvalid, EntryStatusInvalidFormat, EntryStatusInvalidVolume, EntryStatusDivergent:
		return true
	}
	return false
}
