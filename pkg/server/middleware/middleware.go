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

// Package middleware provides middlewares for the server
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pastoapp/pastoapp/pkg/server/app"
	"github.com/pastoapp/pastoapp/pkg/server/log"
)

// Middleware is a middleware for the application
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for the api
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(cors(h), rateLimit)
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Device-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func logging(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remoteAddr": lookupIP(r),
			"uri":        r.RequestURI,
			"method":     r.Method,
			"duration":   fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		}).Info("incoming request")
	})
}

func recoverPanic(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"uri":    r.RequestURI,
					"method": r.Method,
					"panic":  fmt.Sprintf("%v", rec),
				}).Error("recovered from panic")

				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		h.ServeHTTP(w, r)
	})
}

// Global applies the middleware that are used for all requests
func Global(h http.Handler) http.Handler {
	ret := h
	ret = logging(ret)
	ret = recoverPanic(ret)

	return ret
}
