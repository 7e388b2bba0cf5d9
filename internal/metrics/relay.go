package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas de dominio del relay. Viven en un paquete aparte para que provider,
// middlewares y services las usen sin ciclos de import con internal/http.

var (
	ProviderCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_provider_call_duration_seconds",
		Help:    "Latencia de llamadas al provider por operación y resultado",
		Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"op", "outcome"})

	ClientTokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_client_tokens_issued_total",
		Help: "Client tokens emitidos, por resultado del intercambio",
	}, []string{"outcome"}) // ok | invalid_credentials | error

	GateRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_gate_rejections_total",
		Help: "Requests rechazadas por el gate, por tipo de gate y motivo",
	}, []string{"gate", "reason"})

	ProfilesProvisioned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_profiles_provisioned_total",
		Help: "Perfiles creados en el primer login, por resultado",
	}, []string{"outcome"}) // created | exists | failed
)

// Register registra las métricas del relay en el registry dado (default si nil).
// Ignora duplicados para que sea seguro llamarlo más de una vez.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		ProviderCallDuration,
		ClientTokensIssued,
		GateRejections,
		ProfilesProvisioned,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
