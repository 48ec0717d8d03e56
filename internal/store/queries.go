// Copyright 2025 Telearchive Media, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file centralizes the BigQuery SQL statements used by the BigQuery
// store backend. The statements use fmt.Sprintf verbs as placeholders for
// the fully qualified table name and other runtime values.
package store

const (
	// QryWindowKnn performs a k-nearest-neighbor search over the embedding
	// column using BigQuery's native VECTOR_SEARCH function. The first
	// placeholder is the fully qualified embedding table, the second is the
	// query vector as a comma-separated float list, and the third is top_k.
	// COSINE distance matches the pgvector backend's ranking.
	QryWindowKnn = `
SELECT
  base.id AS id,
  base.video_id AS video_id,
  base.filename AS filename,
  base.start_time AS start_time,
  base.end_time AS end_time,
  base.content AS content,
  base.people AS people,
  base.organizations AS organizations,
  base.locations AS locations,
  (1 - distance) AS score
FROM
  VECTOR_SEARCH(
    TABLE %s,
    'embedding',
    (SELECT [ %s ] AS embed),
    query_column_to_search => 'embed',
    top_k => %d,
    distance_type => 'COSINE')`

	// QryMergeWindow upserts one window record by identity. MERGE keeps the
	// commit idempotent: a reprocessed window replaces its previous row.
	QryMergeWindow = `
MERGE %s T
USING (SELECT @id AS id) S
ON T.id = S.id
WHEN MATCHED THEN UPDATE SET
  video_id = @video_id,
  filename = @filename,
  start_time = @start_time,
  end_time = @end_time,
  content = @content,
  people = @people,
  organizations = @organizations,
  locations = @locations,
  embedding = @embedding
WHEN NOT MATCHED THEN INSERT
  (id, video_id, filename, start_time, end_time, content, people, organizations, locations, embedding)
VALUES
  (@id, @video_id, @filename, @start_time, @end_time, @content, @people, @organizations, @locations, @embedding)`

	// QryByFilename returns the stored windows of one source file in
	// temporal order.
	QryByFilename = `
SELECT id, video_id, filename, start_time, end_time, content, people, organizations, locations, 0.0 AS score
FROM %s
WHERE filename = @filename
ORDER BY start_time
LIMIT %d`

	// QryCount counts the stored window records.
	QryCount = `SELECT COUNT(*) AS total FROM %s`
)
