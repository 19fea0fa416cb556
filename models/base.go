package models

const (
	StatusSuccess      = 200
	StatusError        = 500
	StatusUnauthorized = 401
)

// ApiResponse is the envelope of every JSON response.
type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func Succeeded[T any](data T) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Status: StatusSuccess, Data: data}
}

func Failed(status int, message string) ApiResponse[any] {
	return ApiResponse[any]{Success: false, Status: status, Message: message}
}
