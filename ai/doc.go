// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ai provides the embedding capability consumed by the classifier.
//
// The engine depends only on the narrow Embedder contract plus the cosine
// helpers in this package, never on a particular model. Category vectors
// are computed once at startup and each unresolved question is embedded
// once per request.
//
// # Implementation Packages
//
//   - ai/openai: langchaingo client for OpenAI-compatible embedding APIs
//     (Ollama, LocalAI, vLLM, OpenAI)
//   - ai/mock: deterministic test doubles
//
// Public constructors (openai.NewEmbedder, openai.NewProvider) return
// interface types. Test constructors (mock.NewMockEmbedder) return concrete
// types so tests can inject behavior and inspect call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("embeddinggemma"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Necesito un dentista")
//	idx, score := ai.BestMatch(vec, categoryVectors)
package ai
