package ports

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, route, status string)
	RecordHTTPRequestDuration(method, route, status string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementPostOperations(operation string, success bool)
	IncrementAssetOperations(operation string, success bool)
	IncrementAvatarFetches(outcome string)
	RecordAvatarFetchDuration(duration time.Duration)

	SetServiceHealth(healthy bool)
}
