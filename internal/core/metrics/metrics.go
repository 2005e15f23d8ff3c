package metrics

import "github.com/prometheus/client_golang/prometheus"

// 投递结果标签
const (
	ResultAccepted        = "accepted"
	ResultMissingFields   = "missing_fields"
	ResultConsentRequired = "consent_required"
	ResultInvalidFileType = "invalid_file_type"
	ResultError           = "error"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	ApplicationsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "applicants_submitted_total", Help: "Application submissions by result"},
		[]string{"result"},
	)
	ApplicantsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "applicants_deleted_total", Help: "Applicant records deleted by admins"},
	)
	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "admin_logins_total", Help: "Admin login attempts by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, ApplicationsSubmitted, ApplicantsDeleted, AdminLogins)
}
