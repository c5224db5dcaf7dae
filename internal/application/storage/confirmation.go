package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// ConfirmationMode modo do protocolo: endereçar palete em posição sugerida
// ou expedir palete de posição conhecida.
type ConfirmationMode string

const (
	ModeAddressing ConfirmationMode = "enderecamento"
	ModePicking    ConfirmationMode = "expedicao"
)

// ConfirmationState estados do protocolo de confirmação em duas bipagens.
type ConfirmationState string

const (
	StateAwaitingObject   ConfirmationState = "aguardando_objeto"
	StateAwaitingLocation ConfirmationState = "aguardando_posicao"
	StateConfirmed        ConfirmationState = "confirmado"
)

// Confirmation instância do protocolo: bipagem do objeto e depois da posição,
// cada uma validada independentemente contra o esperado. Nenhuma mutação no
// ledger acontece antes de as duas confirmarem; abandono descarta a
// instância sem efeito.
type Confirmation struct {
	ID            string
	Mode          ConfirmationMode
	State         ConfirmationState
	PalletID      string
	PalletCode    string
	// TargetPositions conjunto alvo tratado como unidade atômica; a bipagem
	// de posição valida contra a primeira do conjunto.
	TargetPositions []*entity.Position
	CreatedBy       string
	CreatedAt       time.Time
}

// ExpectedLocation código da posição que a segunda bipagem deve confirmar.
func (c *Confirmation) ExpectedLocation() string {
	if len(c.TargetPositions) == 0 {
		return ""
	}
	return c.TargetPositions[0].Code
}

// ConfirmationService registra instâncias do protocolo em memória (por
// sessão de operador; não persistidas) e dispara exatamente uma mutação no
// ledger quando as duas bipagens confirmam.
type ConfirmationService struct {
	mu       sync.Mutex
	sessions map[string]*Confirmation

	ledger      *LedgerUseCase
	positions   repository.PositionRepository
	pallets     repository.PalletRepository
	suggestions SlotSuggestionProvider
	log         *logger.Logger
}

// NewConfirmationService constrói o serviço.
func NewConfirmationService(ledger *LedgerUseCase, positions repository.PositionRepository, pallets repository.PalletRepository, suggestions SlotSuggestionProvider, log *logger.Logger) *ConfirmationService {
	return &ConfirmationService{
		sessions:    make(map[string]*Confirmation),
		ledger:      ledger,
		positions:   positions,
		pallets:     pallets,
		suggestions: suggestions,
		log:         log,
	}
}

// Suggest devolve as sugestões ranqueadas para o palete sem abrir protocolo.
func (s *ConfirmationService) Suggest(ctx context.Context, palletID string, level int) ([]PositionSuggestion, error) {
	pallet, err := s.pallets.GetByID(ctx, palletID)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNotFound
	}
	return s.suggestions.Suggest(ctx, pallet, level)
}

// StartAddressing abre um protocolo de endereçamento: pede a sugestão de
// melhor rank para o palete (aguardando armazenagem) e fixa o conjunto de
// posições alvo. Nada é ocupado ainda.
func (s *ConfirmationService) StartAddressing(ctx context.Context, palletID, operatorID string, level int) (*Confirmation, error) {
	pallet, err := s.pallets.GetByID(ctx, palletID)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNotFound
	}
	if pallet.Status != entity.PalletStatusAwaiting {
		return nil, domain.ErrInvalidInput
	}
	ranked, err := s.suggestions.Suggest(ctx, pallet, level)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, domain.ErrPositionUnavailable
	}
	return s.register(&Confirmation{
		Mode:            ModeAddressing,
		PalletID:        pallet.ID,
		PalletCode:      pallet.Code,
		TargetPositions: ranked[0].Positions,
		CreatedBy:       operatorID,
	}), nil
}

// StartPicking abre um protocolo de expedição para um palete armazenado.
// O alvo é o conjunto de posições que o palete ocupa hoje.
func (s *ConfirmationService) StartPicking(ctx context.Context, palletID, operatorID string) (*Confirmation, error) {
	pallet, err := s.pallets.GetByID(ctx, palletID)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNotFound
	}
	if pallet.Status != entity.PalletStatusStored {
		return nil, domain.ErrPalletNotStored
	}
	held, err := s.positions.ListByPallet(ctx, pallet.ID)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, domain.ErrPalletNotStored
	}
	return s.register(&Confirmation{
		Mode:            ModePicking,
		PalletID:        pallet.ID,
		PalletCode:      pallet.Code,
		TargetPositions: held,
		CreatedBy:       operatorID,
	}), nil
}

// ScanObject primeira bipagem: o código deve igualar o do palete esperado,
// sem distinção de caixa. Erro de bipagem não avança o estado e não tem
// limite de tentativas.
func (s *ConfirmationService) ScanObject(confirmationID, code string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conf, ok := s.sessions[confirmationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if conf.State != StateAwaitingObject {
		return nil, domain.ErrInvalidInput
	}
	if !strings.EqualFold(code, conf.PalletCode) {
		return conf, &domain.ScanMismatchError{Expected: conf.PalletCode, Got: code}
	}
	conf.State = StateAwaitingLocation
	return conf, nil
}

// ScanLocation segunda bipagem: o código deve igualar o da posição esperada
// (a sugerida, no endereçamento; a que guarda o palete, na expedição).
// Só então acontece exatamente uma mutação no ledger: ocupação do conjunto
// inteiro ou liberação + expedição do palete.
func (s *ConfirmationService) ScanLocation(ctx context.Context, confirmationID, code string) (*Confirmation, error) {
	s.mu.Lock()
	conf, ok := s.sessions[confirmationID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if conf.State != StateAwaitingLocation {
		s.mu.Unlock()
		return nil, domain.ErrInvalidInput
	}
	expected := conf.ExpectedLocation()
	if code != expected {
		s.mu.Unlock()
		return conf, &domain.ScanMismatchError{Expected: expected, Got: code}
	}
	s.mu.Unlock()

	var err error
	switch conf.Mode {
	case ModeAddressing:
		ids := make([]string, len(conf.TargetPositions))
		for i, p := range conf.TargetPositions {
			ids[i] = p.ID
		}
		err = s.ledger.OccupyAll(ctx, conf.PalletID, ids)
	case ModePicking:
		err = s.ledger.ReleaseAll(ctx, conf.PalletID)
	default:
		err = domain.ErrInvalidInput
	}
	if err != nil {
		// O protocolo permanece em aguardando_posicao: o operador pode
		// pedir nova sugestão ou tentar de novo após resolver o conflito.
		return conf, err
	}

	s.mu.Lock()
	conf.State = StateConfirmed
	delete(s.sessions, conf.ID)
	s.mu.Unlock()
	s.log.Info().Str("pallet_code", conf.PalletCode).Str("mode", string(conf.Mode)).Msg("confirmação concluída")
	return conf, nil
}

// Abandon descarta uma instância do protocolo antes da confirmação.
// Nenhuma mutação no ledger; a instância simplesmente deixa de existir.
func (s *ConfirmationService) Abandon(confirmationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[confirmationID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, confirmationID)
	return nil
}

// Get devolve a instância ativa do protocolo.
func (s *ConfirmationService) Get(confirmationID string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conf, ok := s.sessions[confirmationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conf, nil
}

func (s *ConfirmationService) register(conf *Confirmation) *Confirmation {
	conf.ID = uuid.New().String()
	conf.State = StateAwaitingObject
	conf.CreatedAt = time.Now()
	s.mu.Lock()
	s.sessions[conf.ID] = conf
	s.mu.Unlock()
	return conf
}
