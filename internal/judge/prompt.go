package judge

import (
	"embed"
	"fmt"
	"strings"

	"tutoreval/domain/annotation"
)

//go:embed prompts/*.txt
var promptFiles embed.FS

// SystemPrompt opens every single-dimension classification prompt
const SystemPrompt = "You are an expert evaluator of AI tutors. " +
	"For the given ### Task, ### Task Definition, ### Label Definition, ### Conversation History " +
	"and ### Tutor Response, assess the pedagogical appropriateness of the Tutor Response. " +
	"Output exactly one label without additional text: Yes, No, or To some extent"

// AbsoluteSystemPrompt is the system message for rubric-scored judging
const AbsoluteSystemPrompt = "You are a critic assessing a tutor who is interacting with a student by " +
	"providing a clear, objective single evaluation score on specific criteria, ensuring each " +
	"assessment reflects the absolute standards set for performance."

// Classification labels
const (
	LabelYes          = "Yes"
	LabelNo           = "No"
	LabelToSomeExtent = "To some extent"
)

// Labels returns the classification labels in prompt order
func Labels() []string {
	return []string{LabelYes, LabelToSomeExtent, LabelNo}
}

var definitions = map[annotation.Task]string{
	annotation.MistakeIdentification: "Has the tutor identified/recognized a mistake in a student's response?",
	annotation.MistakeLocation:       "Does the tutor's response accurately point to a genuine mistake and its location?",
	annotation.ProvidingGuidance:     "Does the tutor offer correct and relevant guidance, such as an explanation, elaboration, hint, examples, and so on?",
	annotation.Actionability:         "Is it clear from the tutor's feedback what the student should do next?",
}

var labelDefinitions = map[annotation.Task]map[string]string{
	annotation.MistakeIdentification: {
		LabelYes:          "The tutor correctly identified the mistake in the student's response.",
		LabelToSomeExtent: "The tutor partially recognized the mistake but did not fully capture it.",
		LabelNo:           "The tutor failed to identify any mistake.",
	},
	annotation.MistakeLocation: {
		LabelYes:          "The tutor accurately points to the exact mistake and its location.",
		LabelToSomeExtent: "The tutor points to a mistake but imprecisely or partially.",
		LabelNo:           "The tutor fails to indicate the mistake or its location.",
	},
	annotation.ProvidingGuidance: {
		LabelYes:          "The tutor provides correct and relevant guidance, hints, examples, or explanation.",
		LabelToSomeExtent: "The guidance is partially correct or not fully helpful.",
		LabelNo:           "The tutor fails to provide relevant guidance.",
	},
	annotation.Actionability: {
		LabelYes:          "It is clear what the student should do next.",
		LabelToSomeExtent: "The next steps are somewhat unclear or incomplete.",
		LabelNo:           "The feedback does not indicate any actionable steps.",
	},
}

// Definition returns the one-line question a dimension asks
func Definition(task annotation.Task) (string, bool) {
	def, ok := definitions[task]
	return def, ok
}

// LabelDefinition explains what one label means for a dimension
func LabelDefinition(task annotation.Task, label string) (string, bool) {
	def, ok := labelDefinitions[task][label]
	return def, ok
}

// Rubric renders the 1-3 score rubric used by absolute grading. Score 3
// corresponds to Yes, 2 to To some extent and 1 to No.
func Rubric(task annotation.Task) (string, bool) {
	def, ok := definitions[task]
	if !ok {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", def)
	for score := 1; score <= 3; score++ {
		label, _ := ScoreLabel(score)
		fmt.Fprintf(&b, "Score %d: %s", score, labelDefinitions[task][label])
		if score < 3 {
			b.WriteByte('\n')
		}
	}
	return b.String(), true
}

// BuildPrompt renders the single-dimension classification prompt for one
// tutor response. The prompt ends with the instruction line so the model
// answers with a bare label.
func BuildPrompt(task annotation.Task, history, response string, includeLabelDefinitions bool) (string, error) {
	def, ok := definitions[task]
	if !ok {
		return "", fmt.Errorf("no definition for task %q", task)
	}

	labelSection := ""
	if includeLabelDefinitions {
		var b strings.Builder
		b.WriteString("### Label Definition:\n")
		for _, label := range Labels() {
			fmt.Fprintf(&b, "- %s: %s\n", label, labelDefinitions[task][label])
		}
		b.WriteString("\n")
		labelSection = b.String()
	}

	return renderPrompt("single_dimension", map[string]string{
		"SYSTEM_PROMPT":   SystemPrompt,
		"TASK":            string(task),
		"TASK_DEFINITION": def,
		"LABEL_SECTION":   labelSection,
		"HISTORY":         strings.TrimSpace(history),
		"RESPONSE":        strings.TrimSpace(response),
	})
}

// AbsoluteRequest holds the inputs of a rubric-scored judge prompt
type AbsoluteRequest struct {
	Task      annotation.Task
	Topic     string
	History   string
	Response  string
	Reference string // optional reference tutor response
}

// BuildAbsolutePrompt renders the rubric prompt whose answer ends in
// "[RESULT] n". The reference section is only included when a reference
// response is given.
func BuildAbsolutePrompt(req AbsoluteRequest) (string, error) {
	def, ok := definitions[req.Task]
	if !ok {
		return "", fmt.Errorf("no definition for task %q", req.Task)
	}
	rubric, _ := Rubric(req.Task)

	name := "absolute_wo_ref"
	if strings.TrimSpace(req.Reference) != "" {
		name = "absolute"
	}
	return renderPrompt(name, map[string]string{
		"TOPIC":           req.Topic,
		"HISTORY":         strings.TrimSpace(req.History),
		"TASK_DEFINITION": def,
		"RUBRIC":          rubric,
		"REFERENCE":       strings.TrimSpace(req.Reference),
		"RESPONSE":        strings.TrimSpace(req.Response),
	})
}

// renderPrompt replaces {PLACEHOLDER} markers in one pass, so placeholder
// text inside substituted values is left alone
func renderPrompt(name string, replacements map[string]string) (string, error) {
	content, err := promptFiles.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("prompt template not found: %s", name)
	}

	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, "{"+placeholder+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(string(content)), nil
}
