package hotkey

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/cla7997/edl-timestamps/internal/hotkey"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
