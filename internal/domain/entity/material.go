package entity

import "time"

// Material representa um item de almoxarifado com código único e um único
// contador global de estoque. QuantidadeAtual só muda via movimentações
// (nunca por edição direta dos campos descritivos).
type Material struct {
	ID              string
	Codigo          string // código humano único
	Nome            string
	Descricao       string
	Categoria       string
	Localizacao     string
	FotoURL         string
	UnidadeMedida   string
	QuantidadeMinima int // ponto de reposição, >= 0
	QuantidadeAtual  int // estoque atual, >= 0, derivável do ledger
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
