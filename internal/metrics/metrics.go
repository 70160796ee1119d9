package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RentalsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_rentals_created_total",
		Help: "Total number of rental records successfully created.",
	})

	ReturnsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_returns_completed_total",
		Help: "Total number of rentals successfully returned.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	LedgerRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rental_ledger_records",
		Help: "Current number of records in the rental ledger.",
	})
)
