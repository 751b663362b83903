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

package blob

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore stores blobs as files under a root directory
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the given directory,
// creating it if missing.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating media root at %s", root)
	}

	return &FileStore{root: root}, nil
}

// Put implements Store.Put
func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", key)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}

	return nil
}

// Get implements Store.Get
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", key)
	}

	return data, nil
}
