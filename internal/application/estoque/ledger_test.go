package estoque_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

func newLedgerUseCase(s *memStore) *estoque.LedgerUseCase {
	return estoque.NewLedgerUseCase(&fakeMovRepo{s: s}, &fakeMaterialRepo{s: s})
}

func TestHistory(t *testing.T) {
	s := newMemStore()
	mat := seedMaterial(t, s, "HIS-001", 50)
	outro := seedMaterial(t, s, "HIS-002", 10)
	apply := estoque.NewApplyMovementUseCase(&fakeTxRunner{s: s})
	adminID := uuid.New().String()

	for _, q := range []int{5, 7} {
		_, _, err := apply.ApplyDirectMovement(context.Background(), estoque.DirectMovementInput{
			MaterialID: mat.ID, Tipo: entity.TipoSaida, Quantidade: q, UserID: adminID, Perfil: entity.PerfilAdmin,
		})
		require.NoError(t, err)
	}
	_, _, err := apply.ApplyDirectMovement(context.Background(), estoque.DirectMovementInput{
		MaterialID: outro.ID, Tipo: entity.TipoEntrada, Quantidade: 2, UserID: adminID, Perfil: entity.PerfilAdmin,
	})
	require.NoError(t, err)

	uc := newLedgerUseCase(s)

	// Filtro por material: estoque inicial + duas saídas, mais recente primeiro.
	hist, err := uc.History(context.Background(), mat.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, entity.TipoSaida, hist[0].Tipo)
	assert.Equal(t, 7, hist[0].Quantidade)
	assert.Equal(t, entity.TipoSaida, hist[1].Tipo)
	assert.Equal(t, 5, hist[1].Quantidade)
	assert.Equal(t, entity.TipoEntrada, hist[2].Tipo)
	for i := 0; i+1 < len(hist); i++ {
		assert.False(t, hist[i].CreatedAt.Before(hist[i+1].CreatedAt))
	}

	// Sem filtro: todas as movimentações de todos os materiais.
	all, err := uc.History(context.Background(), "", nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	// Paginação.
	page, err := uc.History(context.Background(), mat.ID, nil, nil, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	page, err = uc.History(context.Background(), mat.ID, nil, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	// Intervalo de datas que exclui tudo.
	past := time.Now().Add(-48 * time.Hour)
	cutoff := time.Now().Add(-24 * time.Hour)
	none, err := uc.History(context.Background(), mat.ID, &past, &cutoff, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReconcile(t *testing.T) {
	s := newMemStore()
	mat := seedMaterial(t, s, "REC-001", 10)
	apply := estoque.NewApplyMovementUseCase(&fakeTxRunner{s: s})
	adminID := uuid.New().String()

	_, _, err := apply.ApplyDirectMovement(context.Background(), estoque.DirectMovementInput{
		MaterialID: mat.ID, Tipo: entity.TipoSaida, Quantidade: 4, UserID: adminID, Perfil: entity.PerfilAdmin,
	})
	require.NoError(t, err)

	uc := newLedgerUseCase(s)
	res, err := uc.Reconcile(context.Background(), mat.ID)
	require.NoError(t, err)
	assert.Equal(t, "REC-001", res.Codigo)
	assert.Equal(t, 6, res.QuantidadeAtual)
	assert.Equal(t, 6, res.SomaLedger)
	assert.True(t, res.Consistente)

	_, err = uc.Reconcile(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_DetectaDivergencia(t *testing.T) {
	s := newMemStore()
	mat := seedMaterial(t, s, "REC-002", 10)

	// Corrompe o contador por fora do caminho transacional.
	s.mu.Lock()
	s.materials[mat.ID].QuantidadeAtual = 7
	s.mu.Unlock()

	uc := newLedgerUseCase(s)
	res, err := uc.Reconcile(context.Background(), mat.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, res.QuantidadeAtual)
	assert.Equal(t, 10, res.SomaLedger)
	assert.False(t, res.Consistente)
}

func TestReconcileAll(t *testing.T) {
	s := newMemStore()
	a := seedMaterial(t, s, "REC-003", 5)
	b := seedMaterial(t, s, "REC-004", 8)

	s.mu.Lock()
	s.materials[b.ID].QuantidadeAtual = 9
	s.mu.Unlock()

	uc := newLedgerUseCase(s)
	results, err := uc.ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]*estoque.ReconciliationResult{}
	for _, r := range results {
		byID[r.MaterialID] = r
	}
	assert.True(t, byID[a.ID].Consistente)
	assert.False(t, byID[b.ID].Consistente)
}

// Solicitações pendentes e rejeitadas têm delta zero; somente as aprovadas
// entram na soma do ledger.
func TestSomaLedger_IgnoraPendentesERejeitadas(t *testing.T) {
	s := newMemStore()
	mat := seedMaterial(t, s, "REC-005", 10)
	approval := newApprovalUseCase(s)
	adminID := uuid.New().String()

	pendente, err := approval.CreateWithdrawalRequest(context.Background(), estoque.WithdrawalInput{
		MaterialID: mat.ID, Quantidade: 2, UserID: uuid.New().String(), Perfil: entity.PerfilRequisitante,
	})
	require.NoError(t, err)
	rejeitada, err := approval.CreateWithdrawalRequest(context.Background(), estoque.WithdrawalInput{
		MaterialID: mat.ID, Quantidade: 3, UserID: uuid.New().String(), Perfil: entity.PerfilRequisitante,
	})
	require.NoError(t, err)
	aprovada, err := approval.CreateWithdrawalRequest(context.Background(), estoque.WithdrawalInput{
		MaterialID: mat.ID, Quantidade: 4, UserID: uuid.New().String(), Perfil: entity.PerfilRequisitante,
	})
	require.NoError(t, err)

	_, err = approval.ResolveRequest(context.Background(), rejeitada.ID, estoque.DecisionReject, adminID, entity.PerfilAdmin)
	require.NoError(t, err)
	_, err = approval.ResolveRequest(context.Background(), aprovada.ID, estoque.DecisionApprove, adminID, entity.PerfilAdmin)
	require.NoError(t, err)
	_ = pendente

	uc := newLedgerUseCase(s)
	res, err := uc.Reconcile(context.Background(), mat.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, res.QuantidadeAtual)
	assert.Equal(t, 6, res.SomaLedger)
	assert.True(t, res.Consistente)
}
