package httpdto

// Response is the envelope used by the session-scoped /api surface.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// Meta carries pagination fields on versioned-API list responses.
type Meta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ListEnvelope is the /api/v1 list shape: { data, meta }.
type ListEnvelope[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewListEnvelope[T any](data []T, total int64, limit, offset int) ListEnvelope[T] {
	if data == nil {
		data = []T{}
	}
	return ListEnvelope[T]{
		Data: data,
		Meta: Meta{Total: total, Limit: limit, Offset: offset},
	}
}

// APIError is the /api/v1 error shape: { message, code }.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
