package response

// PostResponse acknowledges a mutation and carries what it changed.
type PostResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func NewPostResponse[T any](success bool, message string, data T) PostResponse[T] {
	return PostResponse[T]{
		Success: success,
		Message: message,
		Data:    data,
	}
}
