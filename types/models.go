package types

// Model identifiers registered by the llm-gcp-vertex plugin. The lists
// mirror the plugin's own model tables; the harness uses them to sanity
// check suite configs and to verify registration after install.

var GeminiModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-3-pro",
	"gemini-3-flash",
}

var ClaudeModels = []string{
	"claude-opus-4.5",
	"claude-sonnet-4.5",
	"claude-haiku-4.5",
	"claude-opus-4",
	"claude-sonnet-4",
}

// KnownModel reports whether the plugin is expected to register the
// given model id.
func KnownModel(id string) bool {
	for _, m := range GeminiModels {
		if m == id {
			return true
		}
	}
	for _, m := range ClaudeModels {
		if m == id {
			return true
		}
	}
	return false
}
