package repository

import (
	"time"

	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

// MovimentacaoRepository define a porta de persistência do ledger de
// movimentações. O ledger é append-only: não há Update/Delete de linhas,
// apenas a transição única de status de uma solicitação pendente.
type MovimentacaoRepository interface {
	Create(mov *entity.Movimentacao) error
	GetByID(id string) (*entity.Movimentacao, error)
	// GetByIDForUpdate bloqueia a linha da movimentação (SELECT FOR UPDATE)
	// para garantir resolução única de solicitações.
	GetByIDForUpdate(id string) (*entity.Movimentacao, error)
	// ResolveStatus grava a única transição permitida de uma solicitação
	// (pendente -> aprovada|rejeitada) com o respectivo resolved_at.
	ResolveStatus(id, status string, resolvedAt time.Time) error
	// ListPending lista solicitações pendentes, mais antigas primeiro, com o
	// estoque vivo do material e a identidade do solicitante.
	ListPending() ([]*entity.MovimentacaoDetalhada, error)
	// History lista movimentações por created_at decrescente. materialID
	// vazio e datas nulas removem o filtro correspondente.
	History(materialID string, from, to *time.Time, limit, offset int) ([]*entity.MovimentacaoDetalhada, error)
	// SumAppliedDelta soma o efeito com sinal de todas as movimentações
	// aprovadas de um material (propriedade de reconciliação do ledger).
	SumAppliedDelta(materialID string) (int, error)
}
