package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Envelope is the uniform response shape: {"ok":true,"data":...} on success,
// {"ok":false,"error":{"code","message"}} on failure.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondData writes a success envelope.
func RespondData(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{OK: true, Data: payload})
}

// RespondError writes a failure envelope. The optional devErr is logged but
// never sent to the client.
func RespondError(w http.ResponseWriter, status int, errorCode, publicMessage string, devErrs ...error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(Envelope{
		OK:    false,
		Error: &ErrorBody{Code: errorCode, Message: publicMessage},
	})

	if len(devErrs) > 0 && devErrs[0] != nil {
		Logger.WithFields(logrus.Fields{
			"status": status,
			"code":   errorCode,
			"error":  devErrs[0].Error(),
		}).Error(publicMessage)
	} else if status >= http.StatusInternalServerError {
		Logger.WithFields(logrus.Fields{
			"status": status,
			"code":   errorCode,
		}).Error(publicMessage)
	}
}
