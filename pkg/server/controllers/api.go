/* Copyright 2025 Pastoapp Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/log"
	"github.com/pkg/errors"
)

// headerDeviceID is the header carrying the client device identity. It
// takes precedence over any device field in the body or query.
const headerDeviceID = "X-Device-Id"

// parseRequestData decodes the JSON request body into the given value
func parseRequestData(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decoding json payload")
	}

	return nil
}

// respondJSON responds with the JSON-encoding of the given value
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorWrap(err, "encoding json response")
	}
}

// getStatusCode maps a domain error to an HTTP status code
func getStatusCode(err error) int {
	cause := errors.Cause(err)

	switch cause {
	case app.ErrEntryNotFound, app.ErrPhotoNotFound:
		return http.StatusNotFound
	case app.ErrInvalidUUID, app.ErrInvalidBase64, app.ErrEmptyUpload,
		app.ErrLotNumberRequired, app.ErrEntryTimeRequired, app.ErrExitTimeRequired:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError logs the error and responds with a JSON error message
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)

	var respMsg string
	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
		respMsg = "Internal server error"
	} else {
		respMsg = errors.Cause(err).Error()
	}

	respondJSON(w, statusCode, map[string]string{"error": respMsg})
}

// getDeviceID resolves the device identity for a request. The header
// wins over the given fallback from the body or query.
func getDeviceID(r *http.Request, fallback string) string {
	if deviceID := r.Header.Get(headerDeviceID); deviceID != "" {
		return deviceID
	}

	return fallback
}
