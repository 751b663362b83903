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

package app

import "github.com/pkg/errors"

var (
	// ErrEntryNotFound is an error for an unknown entry identity
	ErrEntryNotFound = errors.New("pasto entry not found")
	// ErrPhotoNotFound is an error for an unknown photo identity
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrLotNumberRequired is an error for a create candidate missing the lot number
	ErrLotNumberRequired = errors.New("lotNumber is required")
	// ErrEntryTimeRequired is an error for a create candidate missing the entry time
	ErrEntryTimeRequired = errors.New("entryTime is required")
	// ErrExitTimeRequired is an error for a create candidate missing the exit time
	ErrExitTimeRequired = errors.New("exitTime is required")
	// ErrInvalidUUID is an error for a malformed identity string
	ErrInvalidUUID = errors.New("invalid uuid")
	// ErrInvalidBase64 is an error for a malformed inline photo payload
	ErrInvalidBase64 = errors.New("Invalid photoBase64")
	// ErrEmptyUpload is an error for an uploaded file with no content
	ErrEmptyUpload = errors.New("Empty file")
)
