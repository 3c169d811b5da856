package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

var _ repository.MovimentacaoRepository = (*MovimentacaoRepo)(nil)

// MovimentacaoRepo implementação do ledger sobre PostgreSQL (usável com pool
// ou tx). O ledger é append-only: a única escrita pós-inserção é a transição
// de status de uma solicitação pendente.
type MovimentacaoRepo struct {
	q Querier
}

// NewMovimentacaoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovimentacaoRepository(q Querier) *MovimentacaoRepo {
	return &MovimentacaoRepo{q: q}
}

// Create persiste uma movimentação.
func (r *MovimentacaoRepo) Create(mov *entity.Movimentacao) error {
	query := `
		INSERT INTO movimentacoes (id, material_id, user_id, tipo, quantidade, status, observacao, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	materialID := (*string)(nil)
	if mov.MaterialID != "" {
		materialID = &mov.MaterialID
	}
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, materialID, mov.UserID, mov.Tipo, mov.Quantidade,
		mov.Status, mov.Observacao, mov.CreatedAt, mov.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movimentacao: %w", err)
	}
	return nil
}

func scanMovimentacao(row pgx.Row) (*entity.Movimentacao, error) {
	var m entity.Movimentacao
	var materialID *string
	err := row.Scan(
		&m.ID, &materialID, &m.UserID, &m.Tipo, &m.Quantidade,
		&m.Status, &m.Observacao, &m.CreatedAt, &m.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movimentacao: %w", err)
	}
	if materialID != nil {
		m.MaterialID = *materialID
	}
	return &m, nil
}

// GetByID obtém uma movimentação por ID.
func (r *MovimentacaoRepo) GetByID(id string) (*entity.Movimentacao, error) {
	query := `
		SELECT id, material_id, user_id, tipo, quantidade, status, observacao, created_at, resolved_at
		FROM movimentacoes WHERE id = $1`
	return scanMovimentacao(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtém a movimentação e bloqueia a linha (SELECT FOR
// UPDATE); garante que duas resoluções concorrentes da mesma solicitação
// serializem, e a segunda veja o status já terminal.
func (r *MovimentacaoRepo) GetByIDForUpdate(id string) (*entity.Movimentacao, error) {
	query := `
		SELECT id, material_id, user_id, tipo, quantidade, status, observacao, created_at, resolved_at
		FROM movimentacoes WHERE id = $1 FOR UPDATE`
	return scanMovimentacao(r.q.QueryRow(context.Background(), query, id))
}

// ResolveStatus grava a transição única pendente -> aprovada|rejeitada. O
// predicado de status no WHERE é a última linha de defesa contra escrita
// dupla; 0 linhas afetadas vira ErrAlreadyResolved.
func (r *MovimentacaoRepo) ResolveStatus(id, status string, resolvedAt time.Time) error {
	query := `
		UPDATE movimentacoes SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = 'pendente'`
	tag, err := r.q.Exec(context.Background(), query, id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("resolve status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyResolved
	}
	return nil
}

const detailColumns = `
		mv.id, mv.material_id, mv.user_id, mv.tipo, mv.quantidade, mv.status,
		mv.observacao, mv.created_at, mv.resolved_at,
		COALESCE(mt.nome, ''), COALESCE(mt.codigo, ''), COALESCE(mt.unidade_medida, ''),
		COALESCE(mt.quantidade_atual, 0),
		COALESCE(u.nome, ''), COALESCE(u.email, '')`

func scanDetail(rows pgx.Rows) (*entity.MovimentacaoDetalhada, error) {
	var d entity.MovimentacaoDetalhada
	var materialID *string
	if err := rows.Scan(
		&d.ID, &materialID, &d.UserID, &d.Tipo, &d.Quantidade, &d.Status,
		&d.Observacao, &d.CreatedAt, &d.ResolvedAt,
		&d.MaterialNome, &d.MaterialCodigo, &d.UnidadeMedida,
		&d.EstoqueAtual,
		&d.UsuarioNome, &d.UsuarioEmail,
	); err != nil {
		return nil, fmt.Errorf("scan movimentacao detalhada: %w", err)
	}
	if materialID != nil {
		d.MaterialID = *materialID
	}
	return &d, nil
}

// ListPending lista solicitações pendentes, mais antigas primeiro, com o
// estoque vivo do material e a identidade do solicitante.
func (r *MovimentacaoRepo) ListPending() ([]*entity.MovimentacaoDetalhada, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM movimentacoes mv
		LEFT JOIN materiais mt ON mt.id = mv.material_id
		LEFT JOIN usuarios u ON u.id = mv.user_id
		WHERE mv.status = 'pendente'
		ORDER BY mv.created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list pendentes: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimentacaoDetalhada
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// History lista movimentações por created_at decrescente, com filtros
// opcionais de material e intervalo de datas.
func (r *MovimentacaoRepo) History(materialID string, from, to *time.Time, limit, offset int) ([]*entity.MovimentacaoDetalhada, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM movimentacoes mv
		LEFT JOIN materiais mt ON mt.id = mv.material_id
		LEFT JOIN usuarios u ON u.id = mv.user_id
		WHERE 1=1`
	var args []any
	pos := 1
	if materialID != "" {
		query += fmt.Sprintf(" AND mv.material_id = $%d", pos)
		args = append(args, materialID)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND mv.created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND mv.created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY mv.created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list historico: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimentacaoDetalhada
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SumAppliedDelta soma o efeito com sinal das movimentações aprovadas de um
// material; entrada soma, os demais tipos subtraem.
func (r *MovimentacaoRepo) SumAppliedDelta(materialID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN quantidade ELSE -quantidade END), 0)
		FROM movimentacoes
		WHERE material_id = $1 AND status = 'aprovada'`
	var sum int
	if err := r.q.QueryRow(context.Background(), query, materialID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return sum, nil
}
