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

// Package main is the entry point of the query server. It exposes a REST API
// over the indexed window records: semantic search, grounded question
// answering, and the generated topic tags. The server is instrumented with
// OpenTelemetry for logging, tracing, and metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/telearchive/news-video-search/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware("news-video-search-server"))

	// CORS is restricted to the configured origins; with none configured the
	// permissive default suits local development.
	if len(cfg.Server.AllowOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
		r.Use(cors.New(corsConfig))
	} else {
		r.Use(cors.Default())
	}

	apiV1 := r.Group("/api/v1")
	{
		SearchRouter(apiV1)
		TagsRouter(apiV1)
	}

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server Ready", "port", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed", "error", err)
	}
	state.store.Close()
	log.Println("Server exiting")
}

// SearchRouter registers the search and question-answering endpoints.
//
// Endpoints:
//   - GET /search?s=<query>&count=<n>: ranked window records for the query.
//   - GET /ask?s=<question>: a grounded answer with its source records.
func SearchRouter(r *gin.RouterGroup) {
	r.GET("/search", func(c *gin.Context) {
		query := c.Query("s")
		if len(query) == 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		count, err := strconv.Atoi(c.DefaultQuery("count", "5"))
		if err != nil {
			count = 5
		}
		results, err := state.searchService.FindWindows(c, query, count)
		if err != nil {
			slog.Error("search failed", "query", query, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, results)
	})

	r.GET("/ask", func(c *gin.Context) {
		query := c.Query("s")
		if len(query) == 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		// Ask never fails outward; degraded answers arrive as normal text.
		c.JSON(http.StatusOK, state.answerService.Ask(c, query))
	})
}

// TagsRouter serves the flat filename-to-tags file written by the tagger
// job.
//
// Endpoints:
//   - GET /tags: the generated tags as a JSON object.
func TagsRouter(r *gin.RouterGroup) {
	r.GET("/tags", func(c *gin.Context) {
		tagsFile := state.config.Tagging.OutputFile
		if tagsFile == "" {
			tagsFile = "generated_tags.json"
		}
		if _, err := os.Stat(tagsFile); err != nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.File(tagsFile)
	})
}
