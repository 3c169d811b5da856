package estoque

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// ApplyMovementUseCase aplica movimentações diretas (entrada, saida, ajuste)
// ao contador de estoque do material, atomicamente com a inserção no ledger:
// bloqueio de linha (SELECT FOR UPDATE) e Commit/Rollback via TxRunner.
type ApplyMovementUseCase struct {
	txRunner TxRunner
}

// NewApplyMovementUseCase constrói o caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner}
}

// DirectMovementInput entrada para ApplyDirectMovement. Perfil é o papel do
// chamador, repassado pela borda autenticada; o caso de uso revalida a
// permissão como defesa em profundidade.
type DirectMovementInput struct {
	MaterialID string
	Tipo       string
	Quantidade int
	UserID     string
	Perfil     string
	Observacao string
}

// ApplyDirectMovement valida a entrada, abre uma transação, bloqueia a linha
// do material, aplica o delta conforme o tipo e insere a movimentação já
// aprovada. Nenhum estado intermediário é observável: em caso de estoque
// insuficiente nem o ledger nem o contador são gravados.
func (uc *ApplyMovementUseCase) ApplyDirectMovement(ctx context.Context, in DirectMovementInput) (*entity.Movimentacao, *entity.Material, error) {
	if in.Perfil != entity.PerfilAdmin {
		return nil, nil, domain.ErrForbidden
	}
	if !entity.IsDirectType(in.Tipo) {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Quantidade <= 0 || in.MaterialID == "" || in.UserID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		mov *entity.Movimentacao
		mat *entity.Material
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimentacaoRepository,
		materialRepo repository.MaterialRepository,
	) error {
		// Bloqueia a linha do material antes de decidir suficiência.
		material, err := materialRepo.GetForUpdate(in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}

		delta := in.Quantidade
		if in.Tipo != entity.TipoEntrada {
			// saida e ajuste subtraem; ajuste é correção de baixa.
			delta = -in.Quantidade
		}
		novo := material.QuantidadeAtual + delta
		if novo < 0 {
			return domain.ErrInsufficientStock
		}

		if err := materialRepo.UpdateStock(material.ID, novo); err != nil {
			return err
		}
		mov = &entity.Movimentacao{
			ID:         uuid.New().String(),
			MaterialID: material.ID,
			UserID:     in.UserID,
			Tipo:       in.Tipo,
			Quantidade: in.Quantidade,
			Status:     entity.StatusAprovada,
			Observacao: in.Observacao,
			CreatedAt:  now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		material.QuantidadeAtual = novo
		material.UpdatedAt = now
		mat = material
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, mat, nil
}
