package estoque

import (
	"context"

	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa transação. É a fronteira de atomicidade do motor
// de estoque: ou a linha do ledger e o novo contador são gravados juntos, ou
// nada é gravado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovimentacaoRepository,
		materialRepo repository.MaterialRepository,
	) error) error
}
