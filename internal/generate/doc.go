// Package generate wraps LLM providers behind the Generator interface used by
// the pipeline for every content-producing step (design, implement,
// requirements, fix, publish).
//
// Both the Anthropic and OpenAI clients rate limit, retry transient failures
// with exponential backoff and respect context deadlines. Prompt construction
// lives in BuildPrompt; output sanitation in Clean.
package generate
