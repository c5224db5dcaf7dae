package entity

import (
	"strings"
	"time"

	"github.com/logfarma/armazem-api/internal/domain"
)

// CartStatus ciclo de vida do carro no lado da bipagem (conjunto fechado).
type CartStatus string

const (
	CartStatusScanning  CartStatus = "bipagem"   // bipando notas
	CartStatusFinalized CartStatus = "finalizado"
	CartStatusPacking   CartStatus = "embalando" // travado; sem novas bipagens
	CartStatusCompleted CartStatus = "concluido" // terminal
)

// Prefixos que separam os espaços de identificadores de carro no ledger
// compartilhado: fluxo de embalagem vs. fluxo de endereçamento WMS.
const (
	CartPrefixPacking = "EMB_"
	CartPrefixWMS     = "WMS_"
)

// Cart carro de bipagem: contêiner móvel que acumula notas bipadas antes da embalagem.
// As entradas ficam ordenadas da mais recente para a mais antiga.
type Cart struct {
	ID        string
	Name      string
	Status    CartStatus
	Entries   []*InvoiceEntry
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked informa se o carro já saiu da bipagem (nenhuma mutação permitida).
func (c *Cart) Locked() bool {
	return c.Status != CartStatusScanning
}

// Append registra uma bipagem no topo da lista. Falha com LockedCartError
// se o carro já saiu da bipagem.
func (c *Cart) Append(entry *InvoiceEntry) error {
	if c.Locked() {
		return &domain.LockedCartError{CartID: c.ID, Status: string(c.Status)}
	}
	entry.CartID = c.ID
	c.Entries = append([]*InvoiceEntry{entry}, c.Entries...)
	c.UpdatedAt = entry.ScannedAt
	return nil
}

// RemoveEntry remove uma bipagem pelo ID. Falha com LockedCartError fora da
// bipagem; ErrNotFound se a entrada não pertence ao carro.
func (c *Cart) RemoveEntry(entryID string) (*InvoiceEntry, error) {
	if c.Locked() {
		return nil, &domain.LockedCartError{CartID: c.ID, Status: string(c.Status)}
	}
	for i, e := range c.Entries {
		if e.ID == entryID {
			c.Entries = append(c.Entries[:i:i], c.Entries[i+1:]...)
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

// HasInvoice informa se já existe bipagem com este número de nota, em qualquer status.
func (c *Cart) HasInvoice(invoiceNumber string) bool {
	for _, e := range c.Entries {
		if e.InvoiceNumber == invoiceNumber {
			return true
		}
	}
	return false
}

// ValidEntries devolve as notas admitidas como válidas.
func (c *Cart) ValidEntries() []*InvoiceEntry {
	var list []*InvoiceEntry
	for _, e := range c.Entries {
		if e.Status == EntryStatusValid {
			list = append(list, e)
		}
	}
	return list
}

// CargoTypes devolve o conjunto de tipos de carga entre as notas admitidas.
func (c *Cart) CargoTypes() map[string]bool {
	set := make(map[string]bool)
	for _, e := range c.Entries {
		if e.Admitted() {
			set[e.CargoType] = true
		}
	}
	return set
}

// FinalDestinations devolve os destinos finais distintos entre as notas válidas
// (resumo derivado; nunca armazenado como contador editável).
func (c *Cart) FinalDestinations() []string {
	seen := make(map[string]bool)
	var list []string
	for i := len(c.Entries) - 1; i >= 0; i-- {
		e := c.Entries[i]
		if e.Status != EntryStatusValid {
			continue
		}
		if !seen[e.FinalDestination] {
			seen[e.FinalDestination] = true
			list = append(list, e.FinalDestination)
		}
	}
	return list
}

// BlockingCount conta as notas que impedem a finalização.
func (c *Cart) BlockingCount() int {
	n := 0
	for _, e := range c.Entries {
		if e.Blocking() {
			n++
		}
	}
	return n
}

// Finalize transiciona bipagem -> finalizado. Exige ao menos uma nota válida
// e nenhuma nota pendente; caso contrário devolve InvalidTransitionError com
// a contagem de pendências e o carro permanece em bipagem.
func (c *Cart) Finalize() error {
	if c.Status != CartStatusScanning {
		return &domain.InvalidTransitionError{From: string(c.Status), To: string(CartStatusFinalized)}
	}
	blocking := c.BlockingCount()
	if len(c.ValidEntries()) == 0 || blocking > 0 {
		return &domain.InvalidTransitionError{
			From:     string(c.Status),
			To:       string(CartStatusFinalized),
			Blocking: blocking,
		}
	}
	c.Status = CartStatusFinalized
	c.UpdatedAt = time.Now()
	return nil
}

// StartPacking transiciona finalizado -> embalando e trava o carro.
// A criação do carro sucessor é efeito explícito do caso de uso, não daqui.
func (c *Cart) StartPacking() error {
	if c.Status != CartStatusFinalized {
		return &domain.InvalidTransitionError{From: string(c.Status), To: string(CartStatusPacking)}
	}
	c.Status = CartStatusPacking
	c.UpdatedAt = time.Now()
	return nil
}

// Complete transiciona embalando -> concluido (terminal).
func (c *Cart) Complete() error {
	if c.Status != CartStatusPacking {
		return &domain.InvalidTransitionError{From: string(c.Status), To: string(CartStatusCompleted)}
	}
	c.Status = CartStatusCompleted
	c.UpdatedAt = time.Now()
	return nil
}

// NewCartID monta o identificador com o prefixo do fluxo, para que os dois
// espaços de identificadores nunca colidam no ledger compartilhado.
func NewCartID(prefix, id string) string {
	if strings.HasPrefix(id, prefix) {
		return id
	}
	return prefix + id
}
