package cart

import (
	"context"

	"github.com/logfarma/armazem-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante atomicidade para as transições de
// ciclo de vida que tocam mais de um agregado (travar carro + criar sucessor
// + abrir conferência; lançar + arquivar).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		cartRepo repository.CartRepository,
		reviewRepo repository.ReviewRepository,
		archiveRepo repository.ArchiveRepository,
	) error) error
}
