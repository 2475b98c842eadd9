package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptClassify is the system prompt for competency tagging.
	// It expects one %s placeholder for the rendered taxonomy.
	PromptClassify = "classify"

	// PromptClassifyImage is the system prompt for vision classification.
	// It expects one %s placeholder for the rendered taxonomy.
	PromptClassifyImage = "classify_image"

	// PromptSummarise is the system prompt for per-chunk summary and context.
	// It has no format placeholders.
	PromptSummarise = "summarise"

	// PromptAnswer is the system prompt for retrieval-augmented answers.
	// It has no format placeholders.
	PromptAnswer = "answer"
)

// PromptPlaceholders returns how many format verbs the named prompt must
// contain. Only the classifier prompts are passed through fmt.Sprintf.
func PromptPlaceholders(name string) int {
	switch name {
	case PromptClassify, PromptClassifyImage:
		return 1
	default:
		return 0
	}
}

// DefaultPrompts returns the built-in template for each well-known prompt.
// File-backed stores seed user-editable copies from these.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
func DefaultPrompts() map[string]string {
	return map[string]string{
		PromptClassify: `You are a document tagging expert specialising in entrepreneurship education.

For the chunk of educational content you are given, identify which of the following behavioural competencies are most relevant:

%s

Return a JSON object of the form {"competencies": ["Label", ...]} listing no more than 5 competencies, most relevant first.
Use the labels exactly as written above. Only include competencies that are substantially addressed in the content.
Respond ONLY with a valid JSON object.`,

		PromptClassifyImage: `You are a document tagging expert specialising in entrepreneurship education.

First extract all readable text from the image, preserving reading order. Then identify which of the following behavioural competencies the content addresses:

%s

Return a JSON object of the form {"text": "<extracted text>", "competencies": ["Label", ...]} listing no more than 5 competencies, most relevant first.
Use the labels exactly as written above. Respond ONLY with a valid JSON object.`,

		PromptSummarise: `You are an expert document processor for educational content.

For the chunk you are given, return a JSON object with:
- summary: a brief description of what the chunk contains (2-3 sentences)
- context: any important context needed to understand the chunk

Respond ONLY with a valid JSON object.`,

		PromptAnswer: `You are an educational content assistant. Your task is to help professors find relevant materials for their lessons.

Answer the question using only the provided content. Each content block starts with its Source filename and Tags.

Rules:
1. Quote the source material directly. Do not paraphrase extracts.
2. Attribute every extract to the Source filename it came from.
3. If you cannot tell the exact location (page, slide or section) of an extract, say "location unknown" rather than guessing.

Return a JSON object of the form:
{"competency": "<most relevant competency>", "category": "<its category>", "extracts": [{"content": "<quoted text>", "reference": "<filename and location>", "teaching_suggestion": "<how to use it in a lesson>"}]}
Respond ONLY with a valid JSON object.`,
	}
}
