package models

// Booking statuses. WAITING is the only initial status; the other two
// are terminal.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Export task types consumed by the worker.
const (
	TaskUpsert       = "upsert"
	TaskUpdateStatus = "update_status"
)

const (
	// DefaultPageOffset and DefaultPageSize apply when the transport layer
	// omits from/size query parameters.
	DefaultPageOffset = 0
	DefaultPageSize   = 10

	// DefaultRedisTTL время жизни кэшированных проекций в Redis (секунды)
	DefaultRedisTTL = 30 * 60

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 128

	// RateLimitRequests количество запросов в окне на одного клиента
	RateLimitRequests = 60

	// RateLimitWindow окно ограничения частоты запросов (секунды)
	RateLimitWindow = 60
)
