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
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/helpers"
	"github.com/pastoapp/pastoapp/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewEntries creates a new Entries controller.
func NewEntries(app *app.App) *Entries {
	return &Entries{
		app: app,
	}
}

// Entries is an entries controller.
type Entries struct {
	app *app.App
}

// EntryPayload is the JSON request payload for an entry. Older clients
// send the identity under "id"; it is honored only when it is a string
// that parses as a uuid, and "uuid" wins when both are present.
type EntryPayload struct {
	ID          json.RawMessage `json:"id"`
	UUID        *string         `json:"uuid"`
	LotNumber   *string         `json:"lotNumber"`
	EntryTime   *time.Time      `json:"entryTime"`
	ExitTime    *time.Time      `json:"exitTime"`
	CreatedAt   *time.Time      `json:"createdAt"`
	DeviceID    *string         `json:"deviceId"`
	PhotoBase64 *string         `json:"photoBase64"`
}

func (p EntryPayload) identity() string {
	if p.UUID != nil {
		return *p.UUID
	}

	if len(p.ID) > 0 {
		var legacyID string
		if err := json.Unmarshal(p.ID, &legacyID); err == nil && helpers.ValidateUUID(legacyID) {
			return legacyID
		}
	}

	return ""
}

func (p EntryPayload) toEntryParams() app.EntryParams {
	return app.EntryParams{
		UUID:      p.identity(),
		LotNumber: p.LotNumber,
		EntryTime: p.EntryTime,
		ExitTime:  p.ExitTime,
		CreatedAt: p.CreatedAt,
		DeviceID:  p.DeviceID,
	}
}

// attachInlinePhoto stores the inline photo of a payload, if any. It
// runs after the entry write has been committed, so a bad payload fails
// the request without undoing the entry.
func (e *Entries) attachInlinePhoto(w http.ResponseWriter, r *http.Request, payload EntryPayload, entryUUID string) bool {
	if payload.PhotoBase64 == nil || *payload.PhotoBase64 == "" {
		return true
	}

	if _, err := e.app.CreatePhotoFromBase64(r.Context(), entryUUID, *payload.PhotoBase64); err != nil {
		handleJSONError(w, err, "attaching photo")
		return false
	}

	return true
}

// Create handles POST /pasto/entries
func (e *Entries) Create(w http.ResponseWriter, r *http.Request) {
	var payload EntryPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	entry, err := e.app.UpsertEntry(payload.toEntryParams(), getDeviceID(r, ""))
	if err != nil {
		handleJSONError(w, err, "upserting entry")
		return
	}

	if !e.attachInlinePhoto(w, r, payload, entry.UUID) {
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentEntry(entry))
}

func parseListQuery(r *http.Request) (app.ListEntriesParams, error) {
	q := r.URL.Query()

	p := app.ListEntriesParams{
		DeviceID: getDeviceID(r, q.Get("device_id")),
		Limit:    100,
	}

	if v := q.Get("updated_since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return p, errors.Wrap(err, "parsing updated_since")
		}
		p.UpdatedSince = &ts
	}

	if v := q.Get("include_deleted"); v != "" {
		includeDeleted, err := strconv.ParseBool(v)
		if err != nil {
			return p, errors.Wrap(err, "parsing include_deleted")
		}
		p.IncludeDeleted = includeDeleted
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.Wrap(err, "parsing limit")
		}
		if limit < 1 || limit > 500 {
			return p, errors.Errorf("limit must be between 1 and 500 but got %d", limit)
		}
		p.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.Wrap(err, "parsing offset")
		}
		p.Offset = offset
	}

	return p, nil
}

// Index handles GET /pasto/entries
func (e *Entries) Index(w http.ResponseWriter, r *http.Request) {
	p, err := parseListQuery(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := e.app.GetEntries(p)
	if err != nil {
		handleJSONError(w, err, "getting entries")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentEntries(entries))
}

// Show handles GET /pasto/entries/{entryUUID}
func (e *Entries) Show(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryUUID := vars["entryUUID"]

	entry, err := e.app.GetEntryByUUID(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting entry")
		return
	}
	if entry == nil {
		handleJSONError(w, app.ErrEntryNotFound, "getting entry")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentEntry(*entry))
}

// Update handles PATCH /pasto/entries/{entryUUID}
func (e *Entries) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryUUID := vars["entryUUID"]

	var payload EntryPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	existing, err := e.app.GetEntryByUUID(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting entry")
		return
	}
	if existing == nil {
		handleJSONError(w, app.ErrEntryNotFound, "getting entry")
		return
	}

	tx := e.app.DB.Begin()
	entry, err := e.app.UpdateEntry(tx, *existing, payload.toEntryParams(), getDeviceID(r, ""))
	if err != nil {
		tx.Rollback()
		handleJSONError(w, err, "updating entry")
		return
	}
	tx.Commit()

	if !e.attachInlinePhoto(w, r, payload, entry.UUID) {
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentEntry(entry))
}

// Delete handles DELETE /pasto/entries/{entryUUID}
func (e *Entries) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryUUID := vars["entryUUID"]

	existing, err := e.app.GetEntryByUUID(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting entry")
		return
	}
	if existing == nil {
		handleJSONError(w, app.ErrEntryNotFound, "getting entry")
		return
	}

	tx := e.app.DB.Begin()
	if _, err := e.app.DeleteEntry(tx, *existing); err != nil {
		tx.Rollback()
		handleJSONError(w, err, "deleting entry")
		return
	}
	tx.Commit()

	w.WriteHeader(http.StatusNoContent)
}
