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

package database

import (
	"database/sql"
	"encoding/json"
)

// NullString wraps sql.NullString so that nullable columns serialize to
// JSON as either a string or null.
type NullString struct {
	sql.NullString
}

// ToNullString creates a valid NullString from the given string
func ToNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: true}}
}

// MarshalJSON implements json.Marshaler
func (s NullString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(s.String)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.Valid = false
		s.String = ""
		return nil
	}

	if err := json.Unmarshal(data, &s.String); err != nil {
		return err
	}

	s.Valid = true
	return nil
}
