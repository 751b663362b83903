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
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/blob"
	"github.com/pastoapp/pastoapp/pkg/server/presenters"
	"github.com/pkg/errors"
)

// maxPhotoUploadBytes caps the size of a multipart photo upload
const maxPhotoUploadBytes = 32 << 20

// NewPhotos creates a new Photos controller.
func NewPhotos(app *app.App) *Photos {
	return &Photos{
		app: app,
	}
}

// Photos is a photos controller.
type Photos struct {
	app *app.App
}

// Create handles POST /pasto/entries/{entryUUID}/photos
func (p *Photos) Create(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryUUID := vars["entryUUID"]

	entry, err := p.app.GetEntryByUUID(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting entry")
		return
	}
	if entry == nil {
		handleJSONError(w, app.ErrEntryNotFound, "getting entry")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleJSONError(w, errors.Wrap(err, "reading upload"), "reading upload")
		return
	}

	photo, err := p.app.CreatePhoto(r.Context(), entryUUID, data, header.Header.Get("Content-Type"))
	if err != nil {
		handleJSONError(w, err, "creating photo")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentPhoto(photo))
}

// Index handles GET /pasto/entries/{entryUUID}/photos
func (p *Photos) Index(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryUUID := vars["entryUUID"]

	entry, err := p.app.GetEntryByUUID(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting entry")
		return
	}
	if entry == nil {
		handleJSONError(w, app.ErrEntryNotFound, "getting entry")
		return
	}

	photos, err := p.app.GetEntryPhotos(entryUUID)
	if err != nil {
		handleJSONError(w, err, "getting photos")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentPhotos(photos))
}

// Content handles GET /photos/{photoUUID}/content
func (p *Photos) Content(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	photoUUID := vars["photoUUID"]

	photo, err := p.app.GetPhoto(photoUUID)
	if err != nil {
		handleJSONError(w, err, "getting photo")
		return
	}
	if photo == nil || photo.DeletedAt != nil {
		handleJSONError(w, app.ErrPhotoNotFound, "getting photo")
		return
	}

	data, err := p.app.GetPhotoContent(r.Context(), *photo)
	if err != nil {
		// the row can outlive its bytes if the backing store was pruned
		if errors.Cause(err) == blob.ErrNotFound {
			err = app.ErrPhotoNotFound
		}
		handleJSONError(w, err, "reading photo content")
		return
	}

	contentType := "application/octet-stream"
	if photo.MimeType.Valid && photo.MimeType.String != "" {
		contentType = photo.MimeType.String
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /photos/{photoUUID}
func (p *Photos) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	photoUUID := vars["photoUUID"]

	photo, err := p.app.GetPhoto(photoUUID)
	if err != nil {
		handleJSONError(w, err, "getting photo")
		return
	}
	// a tombstoned photo may be deleted again; only a missing row is 404
	if photo == nil {
		handleJSONError(w, app.ErrPhotoNotFound, "getting photo")
		return
	}

	if _, err := p.app.DeletePhoto(*photo); err != nil {
		handleJSONError(w, err, "deleting photo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
