package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
)

// MovementHistoryExcel gera uma planilha xlsx com o histórico de
// movimentações, uma linha por registro, na ordem recebida.
func MovementHistoryExcel(movements []*entity.MovimentacaoDetalhada) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"data",
		"material_codigo",
		"material_nome",
		"tipo",
		"quantidade",
		"unidade_medida",
		"status",
		"usuario",
		"observacao",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("cabeçalho da planilha: %w", err)
	}

	row := 2
	for _, m := range movements {
		usuario := m.UsuarioNome
		if usuario == "" {
			usuario = m.UsuarioEmail
		}
		excelRow := []interface{}{
			m.CreatedAt.Format("02/01/2006 15:04"),
			m.MaterialCodigo,
			m.MaterialNome,
			m.Tipo,
			m.Quantidade,
			m.UnidadeMedida,
			m.Status,
			usuario,
			m.Observacao,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("célula da planilha: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("linha da planilha: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("gravar planilha: %w", err)
	}
	return buf.Bytes(), nil
}
