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

// This file holds every prompt sent to the language models. Keeping them in
// one place makes the model-facing contract of the pipeline reviewable at a
// glance.
package perception

// ScenePrompt asks the vision model for a dense, search-oriented description
// of a single news frame. The trailing instruction suppresses unhelpful
// "I cannot identify anyone" responses so the caption stays indexable.
const ScenePrompt = "Analyze this news video frame for a search archive. " +
	"1. Identify famous public figures (politicians, athletes) by name. " +
	"2. Describe the setting and specific action (e.g., 'speech at UN', 'goal celebration'). " +
	"3. Transcribe visible context from banners or chyron if relevant. " +
	"Be concise and factual. Do not state 'I cannot identify anyone' or similar negatives " +
	"if no public figures are found; simply describe the scene."

// OCRPrompt asks the vision model to act as a plain text reader for tickers,
// headlines, and banners. The model returns an empty string when the frame
// carries no readable text.
const OCRPrompt = "Read all visible text in this news video frame: tickers, headlines, " +
	"banners, chyrons, and captions. Return only the text you can read, as a single " +
	"line with items separated by spaces. If there is no readable text, return an " +
	"empty response. Do not describe the image."

// EntitySystemPrompt asks the model to extract named entities from a speech
// transcript as strict JSON. The example object in the prompt is generated
// from model.GetExampleEntitySet so prompt and parser stay in sync.
const EntitySystemPrompt = "You are a named-entity extraction system for news transcripts. " +
	"Extract every person, organization, and geopolitical location mentioned in the text. " +
	"Respond with a single JSON object and nothing else, using this exact shape:\n%s\n" +
	"List each entity once, in the order it first appears. Use empty arrays when a " +
	"category has no entities."

// AnswerSystemPrompt constrains answer generation to the retrieved context.
const AnswerSystemPrompt = "You are a helpful news assistant. You will be given a user question and " +
	"several context snippets from video transcripts and visual descriptions.\n" +
	"Your job is to answer the question based ONLY on the provided context.\n" +
	"If the context does not contain the answer, say 'I do not have that information.'\n" +
	"Keep the answer concise (2-3 sentences)."

// AnswerUserPrompt carries the assembled context block and the question.
const AnswerUserPrompt = "Context from videos:\n%s\n\nQuestion: %s\n\nAnswer:"

// TagPrompt asks the model to label a content sample with tags drawn from a
// fixed taxonomy.
const TagPrompt = "You are an auto-tagging system for a news archive.\n\n" +
	"Allowed Tags: %s\n\n" +
	"Task: Logically assign the most relevant 1 or 2 tags to the following text.\n" +
	"Rules:\n" +
	"1. ONLY use tags from the Allowed Tags list.\n" +
	"2. Return them as a comma-separated string (e.g., \"Politics, Economy\").\n" +
	"3. If nothing matches, return \"%s\".\n\n" +
	"Text to classify:\n\"%s\""
