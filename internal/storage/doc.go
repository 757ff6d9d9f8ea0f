/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the local gallery of exported walls.
// Exports are kept in an embedded SQLite database (pure-Go modernc.org/sqlite)
// together with a small JPEG thumbnail; only the newest few are retained.
// The database carries the same meta/version bookkeeping as every other
// store of the app and is migrated in place on open. A file that fails to
// open or check is moved to backups/ and recreated.
package storage
