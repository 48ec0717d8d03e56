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

package main

import (
	"context"
	"log"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/telearchive/news-video-search/internal/config"
	"github.com/telearchive/news-video-search/internal/core/perception"
	"github.com/telearchive/news-video-search/internal/core/services"
	"github.com/telearchive/news-video-search/internal/store"
)

// StateManager holds the shared long-lived collaborators of the server. It is
// initialized once at startup and read by the route handlers.
type StateManager struct {
	config        *config.Config
	store         store.VectorStore
	searchService *services.SearchService
	answerService *services.AnswerService
}

var state *StateManager
var configOnce sync.Once

// SetupOS points the configuration loader at the local configs directory
// unless the environment overrides it.
func SetupOS() {
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		_ = os.Setenv(config.EnvConfigFilePrefix, "configs")
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		_ = os.Setenv(config.EnvConfigRuntime, "local")
	}
}

// GetConfig loads the layered configuration exactly once and returns it.
func GetConfig() *config.Config {
	configOnce.Do(func() {
		SetupOS()
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state = &StateManager{config: cfg}
	})
	return state.config
}

// InitState wires the vector store and the query services. The OpenAI key
// comes from the OPENAI_API_KEY environment variable.
func InitState(ctx context.Context) {
	cfg := GetConfig()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}
	client := openai.NewClient(apiKey)
	collaborators := perception.NewOpenAICollaborators(client, cfg)

	vectorStore, err := store.New(ctx, cfg, collaborators.Embedder)
	if err != nil {
		log.Fatalf("failed to open vector store: %v", err)
	}
	state.store = vectorStore
	state.searchService = &services.SearchService{Store: vectorStore}
	state.answerService = &services.AnswerService{
		Store:     vectorStore,
		Generator: collaborators.AnswerGenerator,
	}
}
