// Package semantic implements term expansion and description matching
// over a chat LLM.
//
// Prompts come from a PromptStore when one is set, so users can tune
// them under ~/.findable/prompts. Replies are expected to contain one
// JSON object; any text around the outermost braces is ignored.
package semantic
