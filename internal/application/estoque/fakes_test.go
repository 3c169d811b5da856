package estoque_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/almoxsys/almoxarifado-api/internal/application/estoque"
	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dublês em memória: um memStore compartilhado, repositórios sobre ele e um
// TxRunner que serializa transações com mutex (modela o SELECT FOR UPDATE na
// linha do material) e restaura snapshot em caso de erro (modela o Rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	materials map[string]*entity.Material
	movements map[string]*entity.Movimentacao
	seq       map[string]int // ordem de inserção por movimentação
	nextSeq   int
	users     map[string]*entity.Usuario
}

func newMemStore() *memStore {
	return &memStore{
		materials: map[string]*entity.Material{},
		movements: map[string]*entity.Movimentacao{},
		seq:       map[string]int{},
		users:     map[string]*entity.Usuario{},
	}
}

func cloneMaterial(m *entity.Material) *entity.Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneMovement(m *entity.Movimentacao) *entity.Movimentacao {
	if m == nil {
		return nil
	}
	c := *m
	if m.ResolvedAt != nil {
		t := *m.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func (s *memStore) snapshot() (map[string]*entity.Material, map[string]*entity.Movimentacao) {
	mats := make(map[string]*entity.Material, len(s.materials))
	for k, v := range s.materials {
		mats[k] = cloneMaterial(v)
	}
	movs := make(map[string]*entity.Movimentacao, len(s.movements))
	for k, v := range s.movements {
		movs[k] = cloneMovement(v)
	}
	return mats, movs
}

type fakeMaterialRepo struct{ s *memStore }

var _ repository.MaterialRepository = (*fakeMaterialRepo)(nil)

func (r *fakeMaterialRepo) Create(m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.materials {
		if existing.Codigo == m.Codigo {
			return domain.ErrDuplicate
		}
	}
	r.s.materials[m.ID] = cloneMaterial(m)
	return nil
}

func (r *fakeMaterialRepo) GetByID(id string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneMaterial(r.s.materials[id]), nil
}

func (r *fakeMaterialRepo) GetByCodigo(codigo string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.materials {
		if m.Codigo == codigo {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *fakeMaterialRepo) GetForUpdate(id string) (*entity.Material, error) {
	// O bloqueio de linha é modelado pelo txMu do fakeTxRunner.
	return r.GetByID(id)
}

func (r *fakeMaterialRepo) UpdateStock(id string, quantidadeAtual int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.QuantidadeAtual = quantidadeAtual
	m.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMaterialRepo) UpdateInfo(m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := cloneMaterial(m)
	clone.QuantidadeAtual = existing.QuantidadeAtual // nunca via UpdateInfo
	r.s.materials[m.ID] = clone
	return nil
}

func (r *fakeMaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Material
	for _, m := range r.s.materials {
		list = append(list, cloneMaterial(m))
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.Compare(list[i].Nome, list[j].Nome) < 0
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeMaterialRepo) ListBelowMinimum() ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Material
	for _, m := range r.s.materials {
		if m.QuantidadeAtual < m.QuantidadeMinima {
			list = append(list, cloneMaterial(m))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.Compare(list[i].Nome, list[j].Nome) < 0
	})
	return list, nil
}

func (r *fakeMaterialRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.materials, id)
	// SET NULL na referência do ledger
	for _, mov := range r.s.movements {
		if mov.MaterialID == id {
			mov.MaterialID = ""
		}
	}
	return nil
}

type fakeMovRepo struct{ s *memStore }

var _ repository.MovimentacaoRepository = (*fakeMovRepo)(nil)

func (r *fakeMovRepo) Create(mov *entity.Movimentacao) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements[mov.ID] = cloneMovement(mov)
	r.s.nextSeq++
	r.s.seq[mov.ID] = r.s.nextSeq
	return nil
}

func (r *fakeMovRepo) GetByID(id string) (*entity.Movimentacao, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneMovement(r.s.movements[id]), nil
}

func (r *fakeMovRepo) GetByIDForUpdate(id string) (*entity.Movimentacao, error) {
	return r.GetByID(id)
}

func (r *fakeMovRepo) ResolveStatus(id, status string, resolvedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mov, ok := r.s.movements[id]
	if !ok || mov.Status != entity.StatusPendente {
		return domain.ErrAlreadyResolved
	}
	mov.Status = status
	t := resolvedAt
	mov.ResolvedAt = &t
	return nil
}

func (r *fakeMovRepo) detail(mov *entity.Movimentacao) *entity.MovimentacaoDetalhada {
	d := &entity.MovimentacaoDetalhada{Movimentacao: *cloneMovement(mov)}
	if mat, ok := r.s.materials[mov.MaterialID]; ok {
		d.MaterialNome = mat.Nome
		d.MaterialCodigo = mat.Codigo
		d.UnidadeMedida = mat.UnidadeMedida
		d.EstoqueAtual = mat.QuantidadeAtual
	}
	if u, ok := r.s.users[mov.UserID]; ok {
		d.UsuarioNome = u.Nome
		d.UsuarioEmail = u.Email
	}
	return d
}

func (r *fakeMovRepo) ListPending() ([]*entity.MovimentacaoDetalhada, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.MovimentacaoDetalhada
	for _, mov := range r.s.movements {
		if mov.Status == entity.StatusPendente {
			list = append(list, r.detail(mov))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return r.s.seq[list[i].ID] < r.s.seq[list[j].ID]
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *fakeMovRepo) History(materialID string, from, to *time.Time, limit, offset int) ([]*entity.MovimentacaoDetalhada, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.MovimentacaoDetalhada
	for _, mov := range r.s.movements {
		if materialID != "" && mov.MaterialID != materialID {
			continue
		}
		if from != nil && mov.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && mov.CreatedAt.After(*to) {
			continue
		}
		list = append(list, r.detail(mov))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return r.s.seq[list[i].ID] > r.s.seq[list[j].ID]
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeMovRepo) SumAppliedDelta(materialID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := 0
	for _, mov := range r.s.movements {
		if mov.MaterialID == materialID {
			sum += mov.Delta()
		}
	}
	return sum, nil
}

type fakeTxRunner struct{ s *memStore }

var _ estoque.TxRunner = (*fakeTxRunner)(nil)

// Run serializa transações (txMu) e desfaz tudo se fn falhar, como o
// Commit/Rollback real.
func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovimentacaoRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	mats, movs := r.s.snapshot()
	r.s.mu.Unlock()

	if err := fn(&fakeMovRepo{s: r.s}, &fakeMaterialRepo{s: r.s}); err != nil {
		r.s.mu.Lock()
		r.s.materials = mats
		r.s.movements = movs
		r.s.mu.Unlock()
		return err
	}
	return nil
}
