package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Verification lookup outcomes
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	UniversitiesRegistered prometheus.Counter
	StudentsRegistered     prometheus.Counter
	DuplicateRejections    *prometheus.CounterVec
	DegreesMinted          prometheus.Counter
	Verifications          *prometheus.CounterVec
	VerificationCacheHits  prometheus.Counter
	IdentityChecks         *prometheus.CounterVec
	UniversitiesTotal      prometheus.Gauge
	DegreesTotal           prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UniversitiesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "shikshachain_universities_registered_total",
			Help: "Total number of universities registered",
		}),
		StudentsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "shikshachain_students_registered_total",
			Help: "Total number of students registered",
		}),
		DuplicateRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shikshachain_duplicate_rejections_total",
			Help: "Registrations rejected because a unique key already exists",
		}, []string{"entity"}),
		DegreesMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "shikshachain_degrees_minted_total",
			Help: "Total number of degree NFTs minted",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shikshachain_verifications_total",
			Help: "Degree verification lookups by outcome",
		}, []string{"result"}),
		VerificationCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "shikshachain_verification_cache_hits_total",
			Help: "Verification lookups served from Redis",
		}),
		IdentityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shikshachain_identity_checks_total",
			Help: "Mock Aadhaar checks by outcome",
		}, []string{"verified"}),
		UniversitiesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shikshachain_universities",
			Help: "Universities in the store at the last statistics run",
		}),
		DegreesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shikshachain_degrees",
			Help: "Degrees in the store at the last statistics run",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
