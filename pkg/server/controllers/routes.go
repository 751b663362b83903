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

	"github.com/gorilla/mux"
	"github.com/pastoapp/pastoapp/pkg/server/app"
	mw "github.com/pastoapp/pastoapp/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/pasto/entries", c.Entries.Create, true},
		{"GET", "/pasto/entries", c.Entries.Index, true},
		{"GET", "/pasto/entries/{entryUUID}", c.Entries.Show, true},
		{"PATCH", "/pasto/entries/{entryUUID}", c.Entries.Update, true},
		{"DELETE", "/pasto/entries/{entryUUID}", c.Entries.Delete, true},

		{"POST", "/pasto/entries/{entryUUID}/photos", c.Photos.Create, true},
		{"GET", "/pasto/entries/{entryUUID}/photos", c.Photos.Index, true},
		{"GET", "/photos/{photoUUID}/content", c.Photos.Content, true},
		{"DELETE", "/photos/{photoUUID}", c.Photos.Delete, true},

		{"POST", "/sync/pasto/push", c.Sync.Push, false},
		{"GET", "/sync/pasto/pull", c.Sync.Pull, false},

		{"GET", "/health", c.Health.Index, true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	registerRoutes(router, mw.APIMw, app, rc.APIRoutes)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	return mw.Global(router), nil
}
