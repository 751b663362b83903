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

// Package app implements the core operations of the pasto sync server
package app

import (
	"time"

	"github.com/pastoapp/pastoapp/pkg/clock"
	"github.com/pastoapp/pastoapp/pkg/server/blob"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyBlob is an error for missing blob store in the app configuration
	ErrEmptyBlob = errors.New("No blob store was provided")
	// ErrEmptyTimeZone is an error for missing reference timezone in the app configuration
	ErrEmptyTimeZone = errors.New("No timezone was provided")
)

// App is an application context
type App struct {
	DB       *gorm.DB
	Clock    clock.Clock
	Blob     blob.Store
	TimeZone *time.Location
	AppEnv   string
	Port     string
	DBDriver string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Blob == nil {
		return ErrEmptyBlob
	}
	if a.TimeZone == nil {
		return ErrEmptyTimeZone
	}

	return nil
}

// now reads the server clock in the reference timezone. Every mutation
// timestamp goes through here so that updated_at is comparable across
// rows regardless of the host timezone.
func (a *App) now() time.Time {
	return a.Clock.Now().In(a.TimeZone)
}
