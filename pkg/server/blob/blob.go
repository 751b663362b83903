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

// Package blob provides storage for opaque binary content under
// path-like keys. Keys are scoped by entry identity and never reused,
// so backends may treat writes as immutable.
package blob

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is an error for a key with no stored content
var ErrNotFound = errors.New("blob not found")

// Store persists binary content under a key
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
