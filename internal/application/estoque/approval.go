package estoque

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// Decisões possíveis para uma solicitação pendente.
const (
	DecisionApprove = "aprovar"
	DecisionReject  = "rejeitar"
)

// ApprovalUseCase gerencia o ciclo de vida das solicitações de retirada:
// criação (pendente, sem efeito em estoque) e resolução única
// (aprovar decrementa estoque atomicamente; rejeitar só marca o status).
type ApprovalUseCase struct {
	txRunner     TxRunner
	movRepo      repository.MovimentacaoRepository
	materialRepo repository.MaterialRepository
}

// NewApprovalUseCase constrói o caso de uso. movRepo e materialRepo são
// atados ao pool (fora de transação); usados apenas nas operações que não
// mutam estoque.
func NewApprovalUseCase(txRunner TxRunner, movRepo repository.MovimentacaoRepository, materialRepo repository.MaterialRepository) *ApprovalUseCase {
	return &ApprovalUseCase{txRunner: txRunner, movRepo: movRepo, materialRepo: materialRepo}
}

// WithdrawalInput entrada para CreateWithdrawalRequest.
type WithdrawalInput struct {
	MaterialID string
	Quantidade int
	UserID     string
	Perfil     string
	Observacao string
}

// CreateWithdrawalRequest insere uma movimentação solicitacao_saida com
// status pendente. Não lê nem bloqueia o estoque: a suficiência é reavaliada
// na aprovação, já que o estoque pode mudar enquanto a solicitação espera.
func (uc *ApprovalUseCase) CreateWithdrawalRequest(ctx context.Context, in WithdrawalInput) (*entity.Movimentacao, error) {
	if in.Perfil == "" || in.UserID == "" {
		return nil, domain.ErrForbidden
	}
	if in.Quantidade <= 0 || in.MaterialID == "" {
		return nil, domain.ErrInvalidInput
	}
	material, err := uc.materialRepo.GetByID(in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	mov := &entity.Movimentacao{
		ID:         uuid.New().String(),
		MaterialID: in.MaterialID,
		UserID:     in.UserID,
		Tipo:       entity.TipoSolicitacaoSaida,
		Quantidade: in.Quantidade,
		Status:     entity.StatusPendente,
		Observacao: in.Observacao,
		CreatedAt:  time.Now(),
	}
	if err := uc.movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ResolveRequest resolve uma solicitação pendente exatamente uma vez.
// aprovar: relê o estoque dentro da mesma transação e, se suficiente,
// decrementa e marca aprovada; se insuficiente, falha e a solicitação
// permanece pendente. rejeitar: marca rejeitada, sem efeito em estoque.
// Uma segunda resolução retorna ErrAlreadyResolved.
func (uc *ApprovalUseCase) ResolveRequest(ctx context.Context, movementID, decision, adminID, perfil string) (*entity.Movimentacao, error) {
	if perfil != entity.PerfilAdmin {
		return nil, domain.ErrForbidden
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, domain.ErrInvalidInput
	}
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var resolved *entity.Movimentacao
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimentacaoRepository,
		materialRepo repository.MaterialRepository,
	) error {
		// Bloqueia a linha da movimentação: garante transição única de status.
		mov, err := movRepo.GetByIDForUpdate(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Tipo != entity.TipoSolicitacaoSaida {
			return domain.ErrInvalidInput
		}
		if mov.Status != entity.StatusPendente {
			return domain.ErrAlreadyResolved
		}

		if decision == DecisionReject {
			if err := movRepo.ResolveStatus(mov.ID, entity.StatusRejeitada, now); err != nil {
				return err
			}
			mov.Status = entity.StatusRejeitada
			mov.ResolvedAt = &now
			resolved = mov
			return nil
		}

		// Aprovação: bloqueia a linha do material e reavalia suficiência com
		// o estoque vivo, não com o valor da época da solicitação.
		material, err := materialRepo.GetForUpdate(mov.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrNotFound
		}
		if material.QuantidadeAtual < mov.Quantidade {
			return domain.ErrInsufficientStock
		}
		if err := materialRepo.UpdateStock(material.ID, material.QuantidadeAtual-mov.Quantidade); err != nil {
			return err
		}
		if err := movRepo.ResolveStatus(mov.ID, entity.StatusAprovada, now); err != nil {
			return err
		}
		mov.Status = entity.StatusAprovada
		mov.ResolvedAt = &now
		resolved = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// ListPending lista as solicitações pendentes, mais antigas primeiro, cada
// uma com o estoque vivo do material e a identidade do solicitante. A
// sequência é reiniciável: cada chamada reexecuta a consulta.
func (uc *ApprovalUseCase) ListPending(ctx context.Context) ([]*entity.MovimentacaoDetalhada, error) {
	return uc.movRepo.ListPending()
}
