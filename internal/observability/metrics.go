package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	syncOperationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streakline",
		Subsystem: "sync",
		Name:      "operations_total",
		Help:      "Synchronization layer operations grouped by operation and result status.",
	}, []string{"operation", "status"})

	remoteRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streakline",
		Subsystem: "remote",
		Name:      "requests_total",
		Help:      "Requests sent to the remote service grouped by API method and outcome.",
	}, []string{"method", "outcome"})
)

func init() {
	prometheus.MustRegister(syncOperationsCounter, remoteRequestsCounter)
}

// RecordSyncOperation counts one finished sync operation.
func RecordSyncOperation(operation, status string) {
	syncOperationsCounter.WithLabelValues(operation, status).Inc()
}

// RecordRemoteRequest counts one remote call. outcome is "ok" or an error class.
func RecordRemoteRequest(method, outcome string) {
	remoteRequestsCounter.WithLabelValues(method, outcome).Inc()
}

// SyncOperationCount returns the current value of one sync counter series.
func SyncOperationCount(operation, status string) float64 {
	return counterValue(syncOperationsCounter.WithLabelValues(operation, status))
}

// RemoteRequestCount returns the current value of one remote counter series.
func RemoteRequestCount(method, outcome string) float64 {
	return counterValue(remoteRequestsCounter.WithLabelValues(method, outcome))
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
