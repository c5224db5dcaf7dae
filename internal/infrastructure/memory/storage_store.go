package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var (
	_ repository.PositionRepository = (*PositionStore)(nil)
	_ repository.PalletRepository   = (*PalletStore)(nil)
	_ repository.LoadRepository     = (*LoadStore)(nil)
	_ storage.TxRunner              = (*StorageTxRunner)(nil)
)

// PositionStore repositório de posições em memória, com a mesma semântica
// condicional (compare-and-swap no status) do adaptador PostgreSQL.
type PositionStore struct {
	mu        sync.Mutex
	positions map[string]*entity.Position
}

// NewPositionStore constrói um repositório vazio.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: make(map[string]*entity.Position)}
}

// Create persiste uma posição nova.
func (s *PositionStore) Create(_ context.Context, p *entity.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[p.ID]; ok {
		return domain.ErrInvalidInput
	}
	cp := *p
	s.positions[p.ID] = &cp
	return nil
}

// GetByID devolve a posição; nil se não existir.
func (s *PositionStore) GetByID(_ context.Context, id string) (*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByCode devolve a posição pelo código; nil se não existir.
func (s *PositionStore) GetByCode(_ context.Context, code string) (*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.positions {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *PositionStore) sortedLocked() []*entity.Position {
	list := make([]*entity.Position, 0, len(s.positions))
	for _, p := range s.positions {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// List lista posições ordenadas por código.
func (s *PositionStore) List(_ context.Context, limit, offset int) ([]*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sortedLocked()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// ListAvailable devolve posições livres, filtradas por nível (level < 0 = todos).
func (s *PositionStore) ListAvailable(_ context.Context, level int) ([]*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Position
	for _, p := range s.sortedLocked() {
		if p.Status != entity.PositionStatusAvailable {
			continue
		}
		if level >= 0 && p.Level != level {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

// ListByPallet devolve as posições que referenciam o palete.
func (s *PositionStore) ListByPallet(_ context.Context, palletID string) ([]*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Position
	for _, p := range s.sortedLocked() {
		if p.PalletID == palletID {
			list = append(list, p)
		}
	}
	return list, nil
}

// cas troca o status da posição se o atual for o esperado; classifica a
// falha como no adaptador PostgreSQL.
func (s *PositionStore) cas(id string, expected entity.PositionStatus, apply func(*entity.Position)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != expected {
		return domain.ErrPositionUnavailable
	}
	apply(p)
	return nil
}

// Occupy seta ocupada + palete, somente se a posição estiver livre.
func (s *PositionStore) Occupy(_ context.Context, positionID, palletID string) error {
	return s.cas(positionID, entity.PositionStatusAvailable, func(p *entity.Position) {
		p.Status = entity.PositionStatusOccupied
		p.PalletID = palletID
	})
}

// Release limpa status e palete, somente se a posição estiver ocupada.
func (s *PositionStore) Release(_ context.Context, positionID string) error {
	return s.cas(positionID, entity.PositionStatusOccupied, func(p *entity.Position) {
		p.Status = entity.PositionStatusAvailable
		p.PalletID = ""
	})
}

// Block bloqueia uma posição livre.
func (s *PositionStore) Block(_ context.Context, positionID, reason string) error {
	return s.cas(positionID, entity.PositionStatusAvailable, func(p *entity.Position) {
		p.Status = entity.PositionStatusBlocked
		p.BlockReason = reason
	})
}

// Unblock devolve uma posição bloqueada a livre.
func (s *PositionStore) Unblock(_ context.Context, positionID string) error {
	return s.cas(positionID, entity.PositionStatusBlocked, func(p *entity.Position) {
		p.Status = entity.PositionStatusAvailable
		p.BlockReason = ""
	})
}

// PalletStore repositório de paletes em memória.
type PalletStore struct {
	mu      sync.Mutex
	pallets map[string]*entity.Pallet
}

// NewPalletStore constrói um repositório vazio.
func NewPalletStore() *PalletStore {
	return &PalletStore{pallets: make(map[string]*entity.Pallet)}
}

// Create persiste um palete novo.
func (s *PalletStore) Create(_ context.Context, p *entity.Pallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pallets[p.ID]; ok {
		return domain.ErrInvalidInput
	}
	cp := *p
	s.pallets[p.ID] = &cp
	return nil
}

// GetByID devolve o palete; nil se não existir.
func (s *PalletStore) GetByID(_ context.Context, id string) (*entity.Pallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pallets[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByCode devolve o palete pelo código; nil se não existir.
func (s *PalletStore) GetByCode(_ context.Context, code string) (*entity.Pallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pallets {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByLoad devolve os paletes de uma carga, ordenados por código.
func (s *PalletStore) ListByLoad(_ context.Context, loadID string) ([]*entity.Pallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.Pallet
	for _, p := range s.pallets {
		if p.LoadID == loadID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

// UpdateStatus troca o status do palete.
func (s *PalletStore) UpdateStatus(_ context.Context, id string, status entity.PalletStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pallets[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

// LoadStore repositório de cargas em memória.
type LoadStore struct {
	mu    sync.Mutex
	loads map[string]*entity.Load
}

// NewLoadStore constrói um repositório vazio.
func NewLoadStore() *LoadStore {
	return &LoadStore{loads: make(map[string]*entity.Load)}
}

// Create persiste uma carga nova.
func (s *LoadStore) Create(_ context.Context, l *entity.Load) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loads[l.ID]; ok {
		return domain.ErrInvalidInput
	}
	cp := *l
	s.loads[l.ID] = &cp
	return nil
}

// GetByID devolve a carga; nil se não existir.
func (s *LoadStore) GetByID(_ context.Context, id string) (*entity.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// StorageTxRunner executa fn contra os repositórios em memória, com
// rollback por snapshot: se fn falha, o estado anterior é restaurado.
type StorageTxRunner struct {
	Positions *PositionStore
	Pallets   *PalletStore
}

// NewStorageTxRunner constrói o runner sobre os repositórios dados.
func NewStorageTxRunner(positions *PositionStore, pallets *PalletStore) *StorageTxRunner {
	return &StorageTxRunner{Positions: positions, Pallets: pallets}
}

// Run executa fn; em caso de erro, desfaz todas as mutações de fn.
func (t *StorageTxRunner) Run(_ context.Context, fn func(
	positionRepo repository.PositionRepository,
	palletRepo repository.PalletRepository,
) error) error {
	posSnap := t.Positions.snapshot()
	palSnap := t.Pallets.snapshot()
	if err := fn(t.Positions, t.Pallets); err != nil {
		t.Positions.restore(posSnap)
		t.Pallets.restore(palSnap)
		return err
	}
	return nil
}

func (s *PositionStore) snapshot() map[string]*entity.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]*entity.Position, len(s.positions))
	for id, p := range s.positions {
		cp := *p
		snap[id] = &cp
	}
	return snap
}

func (s *PositionStore) restore(snap map[string]*entity.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = snap
}

func (s *PalletStore) snapshot() map[string]*entity.Pallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]*entity.Pallet, len(s.pallets))
	for id, p := range s.pallets {
		cp := *p
		snap[id] = &cp
	}
	return snap
}

func (s *PalletStore) restore(snap map[string]*entity.Pallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pallets = snap
}
