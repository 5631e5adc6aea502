// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package core

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ridemeet/ridemeet/core/logger"
)

// WriteData writes the {"data": ...} success envelope.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Data interface{} `json:"data"`
	}{Data: data})
}

// WriteError is the terminal error translator: it writes the
// {"error":{"message","status"}} envelope for err. Errors outside the
// taxonomy are logged with the request logger and reported as a plain
// internal server error, without leaking their message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).WithError(err).Errorln("internal error for", r.Method, r.URL.Path)
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error *Error `json:"error"`
	}{Error: &Error{Message: message, Status: status}})
}
