package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	GeminiRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_gemini_requests_total",
			Help: "Total number of generation requests by outcome.",
		},
		[]string{"outcome"},
	)
	APIKeySwitchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "career_gemini_api_key_switches_total",
			Help: "Total number of switches to the backup API key.",
		},
	)
	QuotaRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_gemini_quota_remaining",
			Help: "Remaining calls of the active API key as tracked locally.",
		},
	)
	ParseStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "career_resume_parse_step_duration_seconds",
			Help:       "Duration of each step of the resume analysis.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	ATSScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "career_resume_ats_score",
			Help:    "Distribution of computed ATS scores.",
			Buckets: []float64{20, 40, 60, 80, 100},
		},
	)
	AnalyzedResumesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_resumes_analyzed_total",
			Help: "Total number of analyzed resumes by vendor.",
		},
		[]string{"source"},
	)
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(GeminiRequestsCounter)
	prometheus.MustRegister(APIKeySwitchesCounter)
	prometheus.MustRegister(QuotaRemaining)
	prometheus.MustRegister(ParseStepDuration)
	prometheus.MustRegister(ATSScores)
	prometheus.MustRegister(AnalyzedResumesCounter)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
