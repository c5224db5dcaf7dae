package memory

import (
	"context"
	"sync"

	"github.com/logfarma/armazem-api/internal/application/cart"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var (
	_ repository.CartRepository    = (*CartStore)(nil)
	_ repository.ReviewRepository  = (*ReviewStore)(nil)
	_ repository.ArchiveRepository = (*ArchiveStore)(nil)
	_ cart.TxRunner                = (*CartTxRunner)(nil)
)

// CartStore repositório de carros em memória, com as bipagens embutidas.
// Seguro para uso concorrente; suficiente para testes e demonstrações.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*entity.Cart
	order []string
}

// NewCartStore constrói um repositório vazio.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*entity.Cart)}
}

func cloneCart(c *entity.Cart) *entity.Cart {
	cp := *c
	cp.Entries = make([]*entity.InvoiceEntry, len(c.Entries))
	for i, e := range c.Entries {
		ec := *e
		cp.Entries[i] = &ec
	}
	return &cp
}

// Create persiste um carro novo.
func (s *CartStore) Create(_ context.Context, c *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[c.ID]; ok {
		return domain.ErrInvalidInput
	}
	s.carts[c.ID] = cloneCart(c)
	s.order = append(s.order, c.ID)
	return nil
}

// GetByID devolve o carro com as bipagens; nil se não existir.
func (s *CartStore) GetByID(_ context.Context, id string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

// GetForUpdate equivale a GetByID; a serialização vem do mutex.
func (s *CartStore) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	return s.GetByID(ctx, id)
}

// UpdateStatus troca o status do carro.
func (s *CartStore) UpdateStatus(_ context.Context, id string, status entity.CartStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

// List devolve os carros na ordem de criação, sem as bipagens.
func (s *CartStore) List(_ context.Context, limit, offset int) ([]*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Cart
	for i := offset; i < len(s.order) && len(list) < limit; i++ {
		c := cloneCart(s.carts[s.order[i]])
		c.Entries = nil
		list = append(list, c)
	}
	return list, nil
}

// AppendEntry grava a bipagem no topo da lista do carro.
func (s *CartStore) AppendEntry(_ context.Context, entry *entity.InvoiceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[entry.CartID]
	if !ok {
		return domain.ErrNotFound
	}
	ec := *entry
	c.Entries = append([]*entity.InvoiceEntry{&ec}, c.Entries...)
	return nil
}

// RemoveEntry remove a bipagem do carro.
func (s *CartStore) RemoveEntry(_ context.Context, cartID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, e := range c.Entries {
		if e.ID == entryID {
			c.Entries = append(c.Entries[:i:i], c.Entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MarkEntryRead marca a bipagem como revisada pelo operador.
func (s *CartStore) MarkEntryRead(_ context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		for _, e := range c.Entries {
			if e.ID == entryID {
				e.Read = true
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// ReviewStore repositório de conferências em memória, chaveado por carro.
type ReviewStore struct {
	mu      sync.Mutex
	reviews map[string]*entity.CartReview
}

// NewReviewStore constrói um repositório vazio.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[string]*entity.CartReview)}
}

func cloneReview(r *entity.CartReview) *entity.CartReview {
	cp := *r
	cp.DispatchNumbers = append([]string(nil), r.DispatchNumbers...)
	return &cp
}

// Create persiste uma conferência nova.
func (s *ReviewStore) Create(_ context.Context, r *entity.CartReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.CartID]; ok {
		return domain.ErrInvalidInput
	}
	s.reviews[r.CartID] = cloneReview(r)
	return nil
}

// GetByCartID devolve a conferência do carro; nil se não existir.
func (s *ReviewStore) GetByCartID(_ context.Context, cartID string) (*entity.CartReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[cartID]
	if !ok {
		return nil, nil
	}
	return cloneReview(r), nil
}

// Update regrava a conferência.
func (s *ReviewStore) Update(_ context.Context, r *entity.CartReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.CartID]; !ok {
		return domain.ErrNotFound
	}
	s.reviews[r.CartID] = cloneReview(r)
	return nil
}

// ArchiveStore arquivo de longo prazo em memória.
type ArchiveStore struct {
	mu      sync.Mutex
	entries []*entity.ArchivedEntry
}

// NewArchiveStore constrói um arquivo vazio.
func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{}
}

// CreateBatch grava entradas no arquivo.
func (s *ArchiveStore) CreateBatch(_ context.Context, entries []*entity.ArchivedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		ec := *e
		s.entries = append(s.entries, &ec)
	}
	return nil
}

// ListByDispatchNumber devolve as entradas arquivadas do número de lançamento.
func (s *ArchiveStore) ListByDispatchNumber(_ context.Context, number string) ([]*entity.ArchivedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.ArchivedEntry
	for _, e := range s.entries {
		if e.DispatchNumber == number {
			ec := *e
			list = append(list, &ec)
		}
	}
	return list, nil
}

// CartTxRunner executa fn contra os três repositórios em memória. Sem
// rollback real: os casos de uso validam as transições antes de persistir.
type CartTxRunner struct {
	Carts    *CartStore
	Reviews  *ReviewStore
	Archives *ArchiveStore
}

// NewCartTxRunner constrói o runner sobre os repositórios dados.
func NewCartTxRunner(carts *CartStore, reviews *ReviewStore, archives *ArchiveStore) *CartTxRunner {
	return &CartTxRunner{Carts: carts, Reviews: reviews, Archives: archives}
}

// Run executa fn com os repositórios deste runner.
func (t *CartTxRunner) Run(_ context.Context, fn func(
	cartRepo repository.CartRepository,
	reviewRepo repository.ReviewRepository,
	archiveRepo repository.ArchiveRepository,
) error) error {
	return fn(t.Carts, t.Reviews, t.Archives)
}
