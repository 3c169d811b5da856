package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almoxsys/almoxarifado-api/internal/application/dto"
	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// MaterialUseCase casos de uso CRUD para materiais. O estoque não é editável
// por aqui: nasce na criação (com uma entrada correspondente no ledger) e
// depois só muda via movimentações.
type MaterialUseCase struct {
	repo     repository.MaterialRepository
	txRunner estoque.TxRunner
}

// NewMaterialUseCase constrói o caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, txRunner estoque.TxRunner) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, txRunner: txRunner}
}

// Create cadastra um material. Se o estoque inicial for maior que zero, grava
// na mesma transação uma movimentação de entrada "estoque inicial": assim a
// propriedade de reconciliação vale desde o nascimento do material.
func (uc *MaterialUseCase) Create(ctx context.Context, userID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.Codigo == "" || in.Nome == "" || in.UnidadeMedida == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantidadeMinima < 0 || in.QuantidadeAtual < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	material := &entity.Material{
		ID:               uuid.New().String(),
		Codigo:           in.Codigo,
		Nome:             in.Nome,
		Descricao:        in.Descricao,
		Categoria:        in.Categoria,
		Localizacao:      in.Localizacao,
		FotoURL:          in.FotoURL,
		UnidadeMedida:    in.UnidadeMedida,
		QuantidadeMinima: in.QuantidadeMinima,
		QuantidadeAtual:  in.QuantidadeAtual,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovimentacaoRepository,
		materialRepo repository.MaterialRepository,
	) error {
		if err := materialRepo.Create(material); err != nil {
			return err
		}
		if in.QuantidadeAtual == 0 {
			return nil
		}
		return movRepo.Create(&entity.Movimentacao{
			ID:         uuid.New().String(),
			MaterialID: material.ID,
			UserID:     userID,
			Tipo:       entity.TipoEntrada,
			Quantidade: in.QuantidadeAtual,
			Status:     entity.StatusAprovada,
			Observacao: "estoque inicial",
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMaterialResponse(material), nil
}

// GetByID obtém um material por ID.
func (uc *MaterialUseCase) GetByID(id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToMaterialResponse(material), nil
}

// Update atualiza campos descritivos. QuantidadeAtual nunca é alterada aqui.
func (uc *MaterialUseCase) Update(id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if in.Codigo == "" || in.Nome == "" || in.UnidadeMedida == "" || in.QuantidadeMinima < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Codigo != material.Codigo {
		existing, _ := uc.repo.GetByCodigo(in.Codigo)
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	material.Codigo = in.Codigo
	material.Nome = in.Nome
	material.Descricao = in.Descricao
	material.Categoria = in.Categoria
	material.Localizacao = in.Localizacao
	material.FotoURL = in.FotoURL
	material.UnidadeMedida = in.UnidadeMedida
	material.QuantidadeMinima = in.QuantidadeMinima
	material.UpdatedAt = time.Now()
	if err := uc.repo.UpdateInfo(material); err != nil {
		return nil, err
	}
	return dto.ToMaterialResponse(material), nil
}

// List lista materiais ordenados por nome, com paginação.
func (uc *MaterialUseCase) List(limit, offset int) ([]*dto.MaterialResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMaterialResponse(m))
	}
	return out, nil
}

// ListBelowMinimum lista materiais com estoque abaixo do ponto de reposição.
func (uc *MaterialUseCase) ListBelowMinimum() ([]*dto.MaterialResponse, error) {
	list, err := uc.repo.ListBelowMinimum()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMaterialResponse(m))
	}
	return out, nil
}

// Delete remove um material. As movimentações históricas sobrevivem: a
// referência material_id delas é desatada (SET NULL), nunca cascateada.
func (uc *MaterialUseCase) Delete(id string) error {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if material == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
