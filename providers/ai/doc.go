// Package ai is the boundary to the language model. The recovery engine never
// talks to a model; the generators send a [ChatRequest] through a [Provider]
// and feed [ChatResponse.Content] to the recovery pipelines.
//
// No concrete network provider lives here. [ProviderFunc] adapts a function,
// which is how tests and embedding applications plug a model in.
package ai
