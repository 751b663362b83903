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
	"testing"

	"github.com/pastoapp/pastoapp/pkg/assert"
	"github.com/pkg/errors"
)

func TestFileStorePutGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating file store"))
	}

	ctx := context.Background()
	key := "pasto/9f0c31a2-15c3-4a26-a06e-5f3ec6098f31/photo1.bin"

	if err := store.Put(ctx, key, []byte("binary content")); err != nil {
		t.Fatal(errors.Wrap(err, "putting blob"))
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting blob"))
	}

	assert.Equal(t, string(data), "binary content", "blob content mismatch")
}

func TestFileStoreGetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating file store"))
	}

	_, err = store.Get(context.Background(), "pasto/unknown/none.bin")
	assert.Equal(t, errors.Cause(err), ErrNotFound, "error mismatch")
}
