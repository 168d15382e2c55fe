package model

// RequestError define the response body of every
// non-2xx answer, and of simple acknowledgements
type RequestError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
