package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_orders_finalized_total",
		Help: "Сколько продаж записано в таблицу.",
	})

	LedgerAppendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_ledger_append_errors_total",
		Help: "Сколько раз не удалось записать строку в таблицу.",
	})

	SchemaRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_schema_refreshes_total",
		Help: "Сколько раз перечитывался справочник.",
	})
)
