package estoque

import (
	"context"
	"time"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// LedgerUseCase consultas de leitura sobre o ledger: histórico filtrado e
// reconciliação (estoque recomputado do histórico versus contador vivo).
type LedgerUseCase struct {
	movRepo      repository.MovimentacaoRepository
	materialRepo repository.MaterialRepository
}

// NewLedgerUseCase constrói o caso de uso.
func NewLedgerUseCase(movRepo repository.MovimentacaoRepository, materialRepo repository.MaterialRepository) *LedgerUseCase {
	return &LedgerUseCase{movRepo: movRepo, materialRepo: materialRepo}
}

// History lista movimentações por data decrescente, com filtros opcionais de
// material e intervalo. Somente leitura; nunca muta o ledger.
func (uc *LedgerUseCase) History(ctx context.Context, materialID string, from, to *time.Time, limit, offset int) ([]*entity.MovimentacaoDetalhada, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.History(materialID, from, to, limit, offset)
}

// ReconciliationResult compara o contador vivo com a soma do ledger.
type ReconciliationResult struct {
	MaterialID      string
	Codigo          string
	QuantidadeAtual int
	SomaLedger      int
	Consistente     bool
}

// Reconcile recomputa o estoque de um material a partir das movimentações
// aprovadas e compara com o contador vivo. Divergência indica corrupção, já
// que toda escrita de estoque é atômica com a linha do ledger.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, materialID string) (*ReconciliationResult, error) {
	material, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumAppliedDelta(materialID)
	if err != nil {
		return nil, err
	}
	return &ReconciliationResult{
		MaterialID:      material.ID,
		Codigo:          material.Codigo,
		QuantidadeAtual: material.QuantidadeAtual,
		SomaLedger:      sum,
		Consistente:     material.QuantidadeAtual == sum,
	}, nil
}

// ReconcileAll audita todos os materiais, paginando internamente.
func (uc *LedgerUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 100
	var results []*ReconciliationResult
	for offset := 0; ; offset += pageSize {
		materials, err := uc.materialRepo.List(pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, m := range materials {
			sum, err := uc.movRepo.SumAppliedDelta(m.ID)
			if err != nil {
				return nil, err
			}
			results = append(results, &ReconciliationResult{
				MaterialID:      m.ID,
				Codigo:          m.Codigo,
				QuantidadeAtual: m.QuantidadeAtual,
				SomaLedger:      sum,
				Consistente:     m.QuantidadeAtual == sum,
			})
		}
		if len(materials) < pageSize {
			return results, nil
		}
	}
}
