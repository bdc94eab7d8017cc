package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PeopleCreated          prometheus.Counter
	PeopleDeleted          prometheus.Counter
	VaccinesCreated        prometheus.Counter
	VaccinationsRegistered prometheus.Counter
	VaccinationsDeleted    prometheus.Counter
	VaccinationsRejected   *prometheus.CounterVec
	CardProjections        *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PeopleCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxcard_people_created_total",
			Help: "Total number of people registered.",
		}),
		PeopleDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxcard_people_deleted_total",
			Help: "Total number of people deleted (cascading their records).",
		}),
		VaccinesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxcard_vaccines_created_total",
			Help: "Total number of vaccines registered in the catalog.",
		}),
		VaccinationsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxcard_vaccinations_registered_total",
			Help: "Total number of vaccination records accepted.",
		}),
		VaccinationsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxcard_vaccinations_deleted_total",
			Help: "Total number of vaccination records deleted individually.",
		}),
		VaccinationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxcard_vaccinations_rejected_total",
			Help: "Vaccination registrations rejected by the validation engine.",
		}, []string{"reason"}),
		CardProjections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxcard_card_projections_total",
			Help: "Card projections served, by format.",
		}, []string{"format"}),
	}
}
