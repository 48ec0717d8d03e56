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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings for
// the indexing pipeline, the OpenAI-backed perception models, the vector
// stores, and the query server.
//
// Structs:
//   - Pipeline: Tunables for temporal segmentation and scene detection.
//   - OpenAIModel: Configuration for a single OpenAI model endpoint.
//   - PgVector: Connection settings for the PostgreSQL/pgvector store.
//   - BigQueryDataSource: Dataset and table names for the BigQuery store.
//   - Server: HTTP listener settings for the query server.
//   - Tagging: Settings for the offline topic-tagging job.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package config

// Pipeline holds the tunables for temporal segmentation, scene-change
// detection, and indexing resilience. The zero values are not usable; the
// defaults ship in the base .env.toml.
type Pipeline struct {
	WindowSeconds    float64 `toml:"window_seconds"`     // The nominal duration of each analysis window in seconds.
	StepSeconds      float64 `toml:"step_seconds"`       // The stride between consecutive window starts in seconds.
	MinWindowSeconds float64 `toml:"min_window_seconds"` // Windows shorter than this (after clipping) are discarded.
	SceneThreshold   float64 `toml:"scene_threshold"`    // The mean-squared-error threshold above which a frame counts as a new scene.
	IndexAttempts    int     `toml:"index_attempts"`     // The maximum number of persistence attempts per record.
	IndexBackoffMs   int     `toml:"index_backoff_ms"`   // The fixed delay between persistence attempts in milliseconds.
	ThreadPoolSize   int     `toml:"thread_pool_size"`   // The size of the worker pool for parallel video processing.
}

// OpenAIModel represents the configuration for a single OpenAI model endpoint.
type OpenAIModel struct {
	Model                string  `toml:"model"`                   // The model name (e.g., "whisper-1", "gpt-4o-mini").
	Temperature          float32 `toml:"temperature"`             // The sampling temperature for chat models.
	MaxTokens            int     `toml:"max_tokens"`              // The maximum number of tokens in the response.
	MaxRequestsPerMinute int     `toml:"max_requests_per_minute"` // The request quota enforced by the rate limiter.
}

// PgVector holds the connection settings for the PostgreSQL/pgvector store.
type PgVector struct {
	DSN        string `toml:"dsn"`        // The PostgreSQL connection string.
	Table      string `toml:"table"`      // The table holding window records and embeddings.
	Dimensions int    `toml:"dimensions"` // The embedding vector width.
}

// BigQueryDataSource represents the configuration for the BigQuery store.
type BigQueryDataSource struct {
	DatasetName    string `toml:"dataset"`         // The name of the BigQuery dataset.
	EmbeddingTable string `toml:"embedding_table"` // The table containing window records and embedding vectors.
}

// Server holds the HTTP listener settings for the query server.
type Server struct {
	Port         int      `toml:"port"`          // The TCP port the server listens on.
	AllowOrigins []string `toml:"allow_origins"` // The CORS origins permitted to call the API.
}

// Tagging holds the settings for the offline topic-tagging job.
type Tagging struct {
	OutputFile       string `toml:"output_file"`        // The path of the JSON file the job writes.
	ChunksPerVideo   int    `toml:"chunks_per_video"`   // The maximum number of stored chunks sampled per video.
	FallbackCategory string `toml:"fallback_category"`  // The category assigned when the model returns nothing usable.
	EmptyStoreLabel  string `toml:"empty_store_label"`  // The single label written when the store has no records at all.
}

// Config represents the overall configuration for the application, loaded from
// TOML files. It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectID string `toml:"google_project_id"` // The Google Cloud project ID for telemetry export and BigQuery.
		MediaDir        string `toml:"media_dir"`         // The directory scanned for input videos.
		StoreDriver     string `toml:"store_driver"`      // The vector store backend: "pgvector" or "bigquery".
	} `toml:"application"`
	Pipeline           Pipeline               `toml:"pipeline"`              // Segmentation and indexing tunables.
	PgVector           PgVector               `toml:"pgvector"`              // PostgreSQL/pgvector store configuration.
	BigQueryDataSource BigQueryDataSource     `toml:"big_query_data_source"` // BigQuery store configuration.
	Server             Server                 `toml:"server"`                // Query server configuration.
	Tagging            Tagging                `toml:"tagging"`               // Topic-tagging job configuration.
	Models             map[string]OpenAIModel `toml:"models"`                // OpenAI models keyed by role (e.g., "transcriber", "vision", "answerer", "embedder").
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The map fields must be initialized before the TOML loader
// populates them.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	return &Config{
		Models: make(map[string]OpenAIModel),
	}
}
