package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CountResponse respuesta de los conteos (dañados, SIM, movimientos del día).
type CountResponse struct {
	Count int64 `json:"count"`
}
