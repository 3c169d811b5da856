package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
	"github.com/almoxsys/almoxarifado-api/internal/infrastructure/ops"
)

// Ensure TxRunner implements estoque.TxRunner.
var _ estoque.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL. Falhas de
// serialização e deadlock viram domain.ErrConflict, que o chamador pode
// repetir com segurança; o runner em si não tenta de novo.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repositórios atados a ela e faz
// Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovimentacaoRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovimentacaoRepository(tx)
	materialRepo := NewMaterialRepository(tx)

	if err := fn(movRepo, materialRepo); err != nil {
		if isSerializationFailure(err) {
			ops.ConflitosTransacao.Inc()
			return domain.ErrConflict
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			ops.ConflitosTransacao.Inc()
			return domain.ErrConflict
		}
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrStorageFailure, err)
	}
	return nil
}
