package entity

import "time"

// Tipos de movimentação de estoque.
const (
	TipoEntrada           = "entrada"            // recebimento direto, soma
	TipoSaida             = "saida"              // retirada direta, subtrai
	TipoAjuste            = "ajuste"             // correção direta, subtrai (ver nota em Delta)
	TipoSolicitacaoSaida  = "solicitacao_saida"  // retirada pendente de aprovação
)

// Status de movimentação.
const (
	StatusAprovada  = "aprovada"  // final, efeito aplicado
	StatusPendente  = "pendente"  // aguardando decisão
	StatusRejeitada = "rejeitada" // final, sem efeito em estoque
)

// Movimentacao é um registro imutável do ledger de estoque. Guarda referência
// não-proprietária ao material (sobrevive à exclusão dele) e ao usuário.
// Quantidade é sempre positiva; o sinal do efeito vem do tipo.
type Movimentacao struct {
	ID         string
	MaterialID string // vazio quando o material foi excluído
	UserID     string
	Tipo       string
	Quantidade int // > 0
	Status     string
	Observacao string
	CreatedAt  time.Time
	ResolvedAt *time.Time // preenchido quando o status deixa pendente
}

// IsDirectType informa se o tipo é aplicado imediatamente (nasce aprovada).
func IsDirectType(tipo string) bool {
	return tipo == TipoEntrada || tipo == TipoSaida || tipo == TipoAjuste
}

// ValidTipo informa se o tipo é um dos quatro conhecidos.
func ValidTipo(tipo string) bool {
	return IsDirectType(tipo) || tipo == TipoSolicitacaoSaida
}

// Delta devolve o efeito com sinal de uma movimentação aprovada sobre o
// estoque. Ajuste subtrai como saída: o formulário original só coleta
// quantidade positiva e trata ajuste como correção de baixa; correções de
// alta entram como "entrada".
func (m *Movimentacao) Delta() int {
	if m.Status != StatusAprovada {
		return 0
	}
	switch m.Tipo {
	case TipoEntrada:
		return m.Quantidade
	case TipoSaida, TipoAjuste, TipoSolicitacaoSaida:
		return -m.Quantidade
	}
	return 0
}
