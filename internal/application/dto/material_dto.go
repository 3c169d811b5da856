package dto

import (
	"time"

	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

// CreateMaterialRequest body para POST /api/materiais.
// QuantidadeAtual é o estoque inicial, definido uma única vez na criação;
// depois disso o contador só muda através de movimentações.
type CreateMaterialRequest struct {
	Codigo           string `json:"codigo"`
	Nome             string `json:"nome"`
	Descricao        string `json:"descricao,omitempty"`
	Categoria        string `json:"categoria,omitempty"`
	Localizacao      string `json:"localizacao,omitempty"`
	FotoURL          string `json:"foto_url,omitempty"`
	UnidadeMedida    string `json:"unidade_medida"`
	QuantidadeMinima int    `json:"quantidade_minima"`
	QuantidadeAtual  int    `json:"quantidade_atual"`
}

// UpdateMaterialRequest body para PUT /api/materiais/:id. Apenas campos
// descritivos; o estoque não aparece aqui de propósito.
type UpdateMaterialRequest struct {
	Codigo           string `json:"codigo"`
	Nome             string `json:"nome"`
	Descricao        string `json:"descricao,omitempty"`
	Categoria        string `json:"categoria,omitempty"`
	Localizacao      string `json:"localizacao,omitempty"`
	FotoURL          string `json:"foto_url,omitempty"`
	UnidadeMedida    string `json:"unidade_medida"`
	QuantidadeMinima int    `json:"quantidade_minima"`
}

// MaterialResponse representação de Material nas respostas.
type MaterialResponse struct {
	ID               string    `json:"id"`
	Codigo           string    `json:"codigo"`
	Nome             string    `json:"nome"`
	Descricao        string    `json:"descricao,omitempty"`
	Categoria        string    `json:"categoria,omitempty"`
	Localizacao      string    `json:"localizacao,omitempty"`
	FotoURL          string    `json:"foto_url,omitempty"`
	UnidadeMedida    string    `json:"unidade_medida"`
	QuantidadeMinima int       `json:"quantidade_minima"`
	QuantidadeAtual  int       `json:"quantidade_atual"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToMaterialResponse converte a entidade para o DTO de resposta.
func ToMaterialResponse(m *entity.Material) *MaterialResponse {
	if m == nil {
		return nil
	}
	return &MaterialResponse{
		ID:               m.ID,
		Codigo:           m.Codigo,
		Nome:             m.Nome,
		Descricao:        m.Descricao,
		Categoria:        m.Categoria,
		Localizacao:      m.Localizacao,
		FotoURL:          m.FotoURL,
		UnidadeMedida:    m.UnidadeMedida,
		QuantidadeMinima: m.QuantidadeMinima,
		QuantidadeAtual:  m.QuantidadeAtual,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
