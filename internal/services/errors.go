package services

type ApiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func (a *ApiError) Error() string {
	return a.Message
}
