package registry

import "github.com/ASRagab/llm-vertex-acceptor/types"

// PluginName is the pip package the harness installs and uninstalls.
const PluginName = "llm-gcp-vertex"

// Claude on Vertex is an allowlisted offering; these substrings in a
// failed response mean the account simply doesn't have access, which is
// a skip rather than a failure.
var claudeSkipSignals = []string{
	"permission denied",
	"permission_denied",
	"not authorized",
	"access denied",
	"failed_precondition",
	"model is not enabled",
	"403",
}

// DefaultSuite is the builtin acceptance suite for the llm-gcp-vertex
// plugin. Groups run in order; the Gemini group is mandatory, the
// Claude group skips when the account lacks access.
func DefaultSuite() types.SuiteConfig {
	return types.SuiteConfig{
		Name: "llm-gcp-vertex",
		Groups: []types.GroupConfig{
			{
				Name:        "gemini",
				Description: "Gemini models served through Vertex AI",
				Model:       "gemini-2.0-flash",
				Cases: []types.CaseConfig{
					{
						Name:   "basic-prompt",
						Prompt: "What is the capital of France? Answer in one word.",
						Expect: "paris",
					},
					{
						Name:   "system-prompt",
						Prompt: "Say hello.",
						System: "Reply with exactly the word PONG and nothing else.",
						Expect: "pong",
					},
					{
						Name:   "sampling-options",
						Prompt: "Count from 1 to 3, digits only.",
						Options: []types.Option{
							{Name: "temperature", Value: "0"},
							{Name: "max_output_tokens", Value: "100"},
							{Name: "top_p", Value: "0.9"},
							{Name: "top_k", Value: "40"},
						},
						Expect: "2",
					},
					{
						Name:   "stop-sequence",
						Prompt: "Recite the lowercase alphabet separated by spaces.",
						Options: []types.Option{
							{Name: "stop_sequences", Value: "e"},
						},
						Expect: "c",
					},
					{
						Name:   "conversation-start",
						Prompt: "My favorite color is teal. Reply with the word OK.",
						Expect: "ok",
					},
					{
						Name:     "conversation-continue",
						Prompt:   "What is my favorite color? Answer in one word.",
						Continue: true,
						Expect:   "teal",
					},
					{
						Name:   "invalid-option",
						Prompt: "Hello",
						Options: []types.Option{
							{Name: "temperature", Value: "99"},
						},
						ExpectFailure: true,
					},
				},
			},
			{
				Name:        "claude",
				Description: "Claude models served through Vertex AI",
				Model:       "claude-haiku-4.5",
				SkipSignals: claudeSkipSignals,
				Cases: []types.CaseConfig{
					{
						Name:   "basic-prompt",
						Prompt: "What is the capital of France? Answer in one word.",
						Expect: "paris",
					},
					{
						Name:   "max-tokens",
						Prompt: "Write two short sentences about the ocean.",
						Options: []types.Option{
							{Name: "max_tokens", Value: "64"},
						},
					},
					{
						Name:   "stop-sequence",
						Prompt: "Count upward from one in words, one number per line.",
						Options: []types.Option{
							{Name: "stop_sequences", Value: "four"},
						},
						Expect: "two",
					},
				},
			},
		},
	}
}
