package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware keys)
	FieldUsername = "username"
	FieldRole     = "role"

	// Chat
	FieldRoomID   = "room_id"
	FieldClientID = "client_id"
)
