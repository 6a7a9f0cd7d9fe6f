package usecases

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	fieldWritesTotal     metric.Int64Counter
	storageFailuresTotal metric.Int64Counter
	reportsTotal         metric.Int64Counter
	sessionsOpenedTotal  metric.Int64Counter
	metricsOnce          sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("gaitbase")

		var err error
		fieldWritesTotal, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", "gaitbase", "rom.field.writes.total"),
			metric.WithDescription("Field values written to the row store"),
		)
		if err != nil {
			panic(err)
		}

		storageFailuresTotal, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", "gaitbase", "rom.storage.failures.total"),
			metric.WithDescription("Field writes rejected by the row store"),
		)
		if err != nil {
			panic(err)
		}

		reportsTotal, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", "gaitbase", "rom.reports.total"),
			metric.WithDescription("Text reports rendered"),
		)
		if err != nil {
			panic(err)
		}

		sessionsOpenedTotal, err = meter.Int64Counter(
			fmt.Sprintf("%s.%s", "gaitbase", "rom.sessions.opened.total"),
			metric.WithDescription("Entry sessions opened or created"),
		)
		if err != nil {
			panic(err)
		}
	})
}
