package dto

import (
	"time"

	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

// DirectMovementRequest body para POST /api/movimentacoes.
// Tipo deve ser entrada, saida ou ajuste; quantidade sempre positiva.
type DirectMovementRequest struct {
	MaterialID string `json:"material_id"`
	Tipo       string `json:"tipo"`
	Quantidade int    `json:"quantidade"`
	Observacao string `json:"observacao,omitempty"`
}

// WithdrawalRequest body para POST /api/solicitacoes.
type WithdrawalRequest struct {
	MaterialID string `json:"material_id"`
	Quantidade int    `json:"quantidade"`
	Observacao string `json:"observacao,omitempty"`
}

// Decisões aceitas em ResolveRequest.
const (
	DecisaoAprovar  = "aprovar"
	DecisaoRejeitar = "rejeitar"
)

// ResolveRequest body para POST /api/solicitacoes/:id/resolver.
type ResolveRequest struct {
	Decisao string `json:"decisao"` // aprovar | rejeitar
}

// HistoryQuery filtros para GET /api/movimentacoes.
type HistoryQuery struct {
	MaterialID string     `query:"material_id"`
	From       *time.Time `query:"from"`
	To         *time.Time `query:"to"`
	PageRequest
}

// MovementResponse representação de uma movimentação nas respostas.
type MovementResponse struct {
	ID         string     `json:"id"`
	MaterialID string     `json:"material_id,omitempty"`
	UserID     string     `json:"user_id"`
	Tipo       string     `json:"tipo"`
	Quantidade int        `json:"quantidade"`
	Status     string     `json:"status"`
	Observacao string     `json:"observacao,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// MovementDetailResponse junta a movimentação à identidade de exibição do
// material e do usuário; nas pendências EstoqueAtual é o valor vivo.
type MovementDetailResponse struct {
	MovementResponse
	MaterialNome   string `json:"material_nome,omitempty"`
	MaterialCodigo string `json:"material_codigo,omitempty"`
	UnidadeMedida  string `json:"unidade_medida,omitempty"`
	EstoqueAtual   int    `json:"estoque_atual"`
	UsuarioNome    string `json:"usuario_nome,omitempty"`
	UsuarioEmail   string `json:"usuario_email,omitempty"`
}

// ReconciliationResponse resultado da auditoria ledger vs. contador.
type ReconciliationResponse struct {
	MaterialID      string `json:"material_id"`
	Codigo          string `json:"codigo"`
	QuantidadeAtual int    `json:"quantidade_atual"`
	SomaLedger      int    `json:"soma_ledger"`
	Consistente     bool   `json:"consistente"`
}

// ToMovementResponse converte a entidade para o DTO de resposta.
func ToMovementResponse(m *entity.Movimentacao) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:         m.ID,
		MaterialID: m.MaterialID,
		UserID:     m.UserID,
		Tipo:       m.Tipo,
		Quantidade: m.Quantidade,
		Status:     m.Status,
		Observacao: m.Observacao,
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}

// ToMovementDetailResponse converte o modelo de leitura detalhado.
func ToMovementDetailResponse(d *entity.MovimentacaoDetalhada) *MovementDetailResponse {
	if d == nil {
		return nil
	}
	return &MovementDetailResponse{
		MovementResponse: *ToMovementResponse(&d.Movimentacao),
		MaterialNome:     d.MaterialNome,
		MaterialCodigo:   d.MaterialCodigo,
		UnidadeMedida:    d.UnidadeMedida,
		EstoqueAtual:     d.EstoqueAtual,
		UsuarioNome:      d.UsuarioNome,
		UsuarioEmail:     d.UsuarioEmail,
	}
}
