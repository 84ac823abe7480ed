package contextkeys

type contextKey string

const (
	RequestID contextKey = "requestID"
)
