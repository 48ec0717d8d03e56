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

// This file provides factory functions for creating hardcoded example
// instances of the data models. The examples are embedded in prompts as
// "few-shot" guidance so the language model returns JSON that is consistent
// and parsable.
package model

// GetExampleEntitySet creates a sample EntitySet. It is embedded in the
// entity-extraction prompt to show the model the exact JSON shape expected
// in its response.
//
// Outputs:
//   - *EntitySet: A pointer to a hardcoded EntitySet object.
func GetExampleEntitySet() *EntitySet {
	return &EntitySet{
		People:        []string{"Angela Merkel", "Joe Biden"},
		Organizations: []string{"NATO", "United Nations"},
		Locations:     []string{"Berlin", "Washington"},
	}
}
