package types

import "fmt"

// CustomError carries an HTTP status code and a machine-readable type label
// through to the global error handler, which renders it as the standard
// error envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
