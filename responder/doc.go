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

// Package responder holds the category handlers the dispatcher delegates to.
//
// A Responder receives the question, the candidate records for the resolved
// category and the request language, and returns summary points and the
// ordered items to show. The Registry is closed at construction and falls
// back to the Generic responder for categories without bespoke logic.
package responder
