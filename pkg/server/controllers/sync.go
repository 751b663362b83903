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
	"net/http"
	"strconv"
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/presenters"
	"github.com/pkg/errors"
)

const (
	pullLimitDefault = 500
	pullLimitMax     = 1000
)

// NewSync creates a new Sync controller.
func NewSync(app *app.App) *Sync {
	return &Sync{
		app: app,
	}
}

// Sync is a sync controller.
type Sync struct {
	app *app.App
}

// PushPayload is the JSON request payload for a push batch
type PushPayload struct {
	DeviceID   *string        `json:"deviceId"`
	ClientTime *time.Time     `json:"clientTime"`
	Items      []EntryPayload `json:"items"`
	DeletedIDs []string       `json:"deletedIds"`
}

// Push handles POST /sync/pasto/push
func (s *Sync) Push(w http.ResponseWriter, r *http.Request) {
	var payload PushPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	var bodyDevice string
	if payload.DeviceID != nil {
		bodyDevice = *payload.DeviceID
	}
	deviceID := getDeviceID(r, bodyDevice)

	candidates := make([]app.EntryParams, 0, len(payload.Items))
	for _, item := range payload.Items {
		candidates = append(candidates, item.toEntryParams())
	}

	result, err := s.app.PushEntries(candidates, payload.DeletedIDs, deviceID)
	if err != nil {
		handleJSONError(w, err, "pushing entries")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentPushResult(result, s.app.Clock.Now()))
}

type pullParams struct {
	cursor   int64
	limit    int
	deviceID string
}

func parsePullQuery(r *http.Request) (pullParams, error) {
	q := r.URL.Query()

	p := pullParams{
		limit:    pullLimitDefault,
		deviceID: getDeviceID(r, q.Get("device_id")),
	}

	if v := q.Get("cursor"); v != "" {
		cursor, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, errors.Wrap(err, "parsing cursor")
		}
		if cursor < 0 {
			return p, errors.Errorf("cursor must not be negative but got %d", cursor)
		}
		p.cursor = cursor
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.Wrap(err, "parsing limit")
		}
		if limit < 1 || limit > pullLimitMax {
			return p, errors.Errorf("limit must be between 1 and %d but got %d", pullLimitMax, limit)
		}
		p.limit = limit
	}

	return p, nil
}

// Pull handles GET /sync/pasto/pull
func (s *Sync) Pull(w http.ResponseWriter, r *http.Request) {
	p, err := parsePullQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	page, err := s.app.GetSyncPage(p.cursor, p.limit, p.deviceID)
	if err != nil {
		handleJSONError(w, err, "getting sync page")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentSyncPage(page))
}
