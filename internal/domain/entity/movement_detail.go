package entity

// MovimentacaoDetalhada é o modelo de leitura do ledger: a movimentação com a
// identidade de exibição do material e do usuário e, para pendências, o
// estoque vivo do material (não um snapshot), para que o aprovador avalie a
// suficiência antes de decidir.
type MovimentacaoDetalhada struct {
	Movimentacao
	MaterialNome   string
	MaterialCodigo string
	UnidadeMedida  string
	EstoqueAtual   int // estoque vivo no momento da consulta
	UsuarioNome    string
	UsuarioEmail   string
}
