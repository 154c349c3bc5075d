package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sitegen"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelSlot    = "slot"
	metricLabelRule    = "rule"
	metricLabelTarget  = "target"
	metricLabelVendor  = "vendor"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each handler
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each handler
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to decode requests, execute a handler and encode its responses",
		metricLabelHandler, metricLabelStatus,
	)
	// GenerationCounter count the number of site generations
	GenerationCounter = newCounterVec(
		"generation_count",
		"Number of site generations",
		metricLabelStatus,
	)
	// GenerationDuration observe the duration of site generations
	GenerationDuration = newSummaryVec(
		"generation_duration_seconds",
		"Duration in seconds for each site generation",
		metricLabelStatus,
	)
	// ImageFallbackCounter count images replaced by the fallback image
	ImageFallbackCounter = newCounterVec(
		"image_fallback_count",
		"Number of generated images replaced by the fallback image",
		metricLabelSlot,
	)
	// ComplianceViolationCounter count copy rule violations found in generated documents
	ComplianceViolationCounter = newCounterVec(
		"compliance_violation_count",
		"Number of copy rule violations in generated documents",
		metricLabelRule,
	)
	// VendorErrorCounter count failed vendor api calls
	VendorErrorCounter = newCounterVec(
		"vendor_error_count",
		"Number of failed vendor api calls",
		metricLabelVendor,
	)
	// DomainAttachFailedCounter count purchased domains that could not be attached to their project
	DomainAttachFailedCounter = newCounterVec(
		"domain_attach_failed_count",
		"Number of purchased domains that could not be attached to the hosting project",
	)
	// DomainPurchaseCounter count completed domain purchases
	DomainPurchaseCounter = newCounterVec(
		"domain_purchase_count",
		"Number of completed domain purchases",
		metricLabelStatus,
	)
	// LeadCaptureFailedCounter count failed or skipped lead captures
	LeadCaptureFailedCounter = newCounterVec(
		"lead_capture_failed_count",
		"Number of lead captures that failed or were skipped",
		metricLabelTarget,
	)
	// SiteSavesCounter count persisted site revisions
	SiteSavesCounter = newCounterVec(
		"site_saves_count",
		"Number of persisted site revisions",
	)
	// NumSocketsGauge keep track of the number of open generation sockets
	NumSocketsGauge = newGaugeVec(
		"num_sockets_total",
		"Total number of currently open generation socket connections",
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist a site
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store a site revision",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
