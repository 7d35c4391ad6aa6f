package types

// SuccessEnvelope always carries data, which may be null (e.g. a car with no
// active tour).
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
