package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_messages_total",
			Help: "Total number of chat messages handled by response type",
		},
		[]string{"response_type"},
	)

	AnswersBySource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_answers_total",
			Help: "Total number of general answers by source",
		},
		[]string{"source"},
	)

	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_recommendation_outcomes_total",
			Help: "Recommendation runs by outcome (clarification, recommendations, no_products)",
		},
		[]string{"outcome"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_collaborator_failures_total",
			Help: "Failed calls to external collaborators",
		},
		[]string{"collaborator"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopchat_pipeline_duration_seconds",
			Help:    "Duration of message handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"response_type"},
	)
)

// Collaborator label values
const (
	CollaboratorCatalog    = "catalog"
	CollaboratorSales      = "sales"
	CollaboratorKnowledge  = "knowledge_base"
	CollaboratorOrders     = "orders"
	CollaboratorCompletion = "completion"
	CollaboratorLog        = "conversation_log"
	CollaboratorProfile    = "profile_store"
)
