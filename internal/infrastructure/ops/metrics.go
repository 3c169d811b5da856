package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores do motor de estoque.
var (
	MovimentacoesAplicadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almoxarifado_movimentacoes_aplicadas_total",
		Help: "Movimentações diretas aplicadas com sucesso, por tipo.",
	}, []string{"tipo"})

	SolicitacoesCriadas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almoxarifado_solicitacoes_criadas_total",
		Help: "Solicitações de retirada criadas (pendentes).",
	})

	SolicitacoesResolvidas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almoxarifado_solicitacoes_resolvidas_total",
		Help: "Solicitações resolvidas, por decisão.",
	}, []string{"decisao"})

	ConflitosTransacao = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almoxarifado_conflitos_transacao_total",
		Help: "Transações abortadas por falha de serialização ou deadlock.",
	})
)
