package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for attendance activity.
type Metrics struct {
	CheckIns       prometheus.Counter
	CheckOuts      prometheus.Counter
	CheckoutUndos  prometheus.Counter
	LeaveRequests  prometheus.Counter
	LeaveDecisions *prometheus.CounterVec
	UsersCreated   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics against a specific registerer. Tests pass
// a fresh registry so parallel packages do not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendly_check_ins_total",
			Help: "Total number of successful check-ins",
		}),
		CheckOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendly_check_outs_total",
			Help: "Total number of successful check-outs",
		}),
		CheckoutUndos: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendly_checkout_undos_total",
			Help: "Total number of checkouts reversed within the undo window",
		}),
		LeaveRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendly_leave_requests_total",
			Help: "Total number of leave requests submitted",
		}),
		LeaveDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_leave_decisions_total",
			Help: "Total number of leave decisions by outcome",
		}, []string{"outcome"}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "attendly_users_created_total",
			Help: "Total number of user accounts provisioned",
		}),
	}
}
