package domain

import (
	"errors"
	"fmt"
	"time"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound            = errors.New("recurso não encontrado")
	ErrUserNotFound        = errors.New("usuário não encontrado")
	ErrLoginAlreadyExists  = errors.New("o login já está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("não autorizado")
	ErrForbidden           = errors.New("acesso negado")
	ErrDuplicateInCart     = errors.New("nota fiscal já bipada neste carro")
	ErrNotReceived         = errors.New("nota fiscal sem registro de recebimento")
	ErrSegregationConflict = errors.New("tipo de carga conflita com as notas já bipadas")
	ErrPositionUnavailable = errors.New("posição indisponível")
	ErrConcurrencyConflict = errors.New("registro alterado por outra operação; tente novamente")
	ErrPalletNotStored     = errors.New("palete não está armazenado")
	ErrDispatchNumber      = errors.New("número de lançamento inválido ou repetido")
)

// LockedCartError indica tentativa de mutação em um carro que já saiu da bipagem.
type LockedCartError struct {
	CartID string
	Status string
}

func (e *LockedCartError) Error() string {
	return fmt.Sprintf("carro %s travado no status %s", e.CartID, e.Status)
}

// InvalidTransitionError indica uma transição de ciclo de vida não permitida.
// Blocking informa quantas notas impedem a transição (finalização com pendências).
type InvalidTransitionError struct {
	From     string
	To       string
	Blocking int
}

func (e *InvalidTransitionError) Error() string {
	if e.Blocking > 0 {
		return fmt.Sprintf("transição %s -> %s bloqueada por %d nota(s) pendente(s)", e.From, e.To, e.Blocking)
	}
	return fmt.Sprintf("transição %s -> %s não permitida", e.From, e.To)
}

// ScanMismatchError indica que o código bipado não corresponde ao esperado
// no protocolo de confirmação. O estado do protocolo permanece inalterado.
type ScanMismatchError struct {
	Expected string
	Got      string
}

func (e *ScanMismatchError) Error() string {
	return fmt.Sprintf("código bipado %q difere do esperado %q", e.Got, e.Expected)
}

// AlreadyAdmittedError indica que a nota já foi admitida em outro carro.
// Não é gravada no carro atual; o operador vê onde e quando foi admitida.
type AlreadyAdmittedError struct {
	InvoiceNumber string
	CartID        string
	AdmittedAt    time.Time
}

func (e *AlreadyAdmittedError) Error() string {
	return fmt.Sprintf("nota %s já admitida no carro %s em %s", e.InvoiceNumber, e.CartID, e.AdmittedAt.Format(time.RFC3339))
}
