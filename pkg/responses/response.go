package responses

// Response is the canonical result envelope every operation returns.
// Data is nil on any failure.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Ok builds a successful envelope.
func Ok[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail builds a failure envelope with zero-valued data.
func Fail[T any](message string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
	}
}
