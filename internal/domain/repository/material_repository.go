package repository

import "github.com/almoxsys/almoxarifado-api/internal/domain/entity"

// MaterialRepository define a porta de persistência para Material (DIP).
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	GetByCodigo(codigo string) (*entity.Material, error)
	// GetForUpdate bloqueia a linha do material (SELECT FOR UPDATE); usar
	// somente dentro de transação, antes de qualquer decisão de suficiência.
	GetForUpdate(id string) (*entity.Material, error)
	// UpdateStock grava o novo contador de estoque. Toda escrita passa pelo
	// processador de movimentações; nunca chamar fora de transação.
	UpdateStock(id string, quantidadeAtual int) error
	// UpdateInfo atualiza apenas campos descritivos; não toca o estoque.
	UpdateInfo(material *entity.Material) error
	List(limit, offset int) ([]*entity.Material, error)
	ListBelowMinimum() ([]*entity.Material, error)
	Delete(id string) error
}
