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

// Package cor (Chain of Responsibility) provides the building blocks for the
// ingestion workflows. A workflow is a chain of commands that share a Context,
// a property bag that carries data, errors, and temp-file bookkeeping for one
// execution. Commands read their input from the context, do one unit of work,
// and write their output back for the next command in the chain.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys that connect consecutive commands: the chain
// moves whatever a command stored under CtxOut into CtxIn before running the
// next command, producing a pipeline without commands knowing their neighbors.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state for a single workflow execution. It carries
// arbitrary key-value data between commands, collects errors keyed by the
// command that produced them, and tracks temporary files so they can be
// removed when the workflow finishes.
type Context interface {
	// SetContext sets the standard Go context, used for cancellation and
	// for propagating OpenTelemetry span information.
	SetContext(context context.Context)

	// GetContext returns the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the name of the failing command.
	AddError(key string, err error)

	// GetErrors returns all errors collected so far.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool

	// AddTempFile registers a temporary file for cleanup at Close.
	AddTempFile(file string)

	// GetTempFiles returns all registered temporary file paths.
	GetTempFiles() []string

	// Close removes the registered temporary files. Deletion failures are
	// logged as warnings, never raised: a file still held open by an
	// external tool must not fail the workflow.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute performs the work, reading inputs from and writing outputs
	// to the shared Context.
	Execute(context Context)
}

// Command is an atomic, individually traceable unit of work and the
// fundamental building block of a workflow.
type Command interface {
	Executable

	// GetName returns the command name used for logging and telemetry.
	GetName() string

	// IsExecutable reports whether the command's preconditions hold for
	// the given context.
	IsExecutable(context Context) bool

	// GetInputParam returns the context key for the command's input.
	GetInputParam() string

	// GetOutputParam returns the context key for the command's output.
	GetOutputParam() string

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other Commands, executed in order. Because a
// Chain is itself a Command, chains can be nested.
type Chain interface {
	Command

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain

	// ContinueOnFailure controls whether the chain keeps executing after a
	// command records an error. The default is to stop at the first error.
	ContinueOnFailure(continueOnFailure bool) Chain
}
