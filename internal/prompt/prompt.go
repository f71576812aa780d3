// Package prompt builds the instructions sent to the text-generation model.
// The field names requested here are the ones package extract validates.
package prompt

import (
	"fmt"
	"strconv"

	"mockprep/internal/model"
)

// BuildGenerationPrompt asks for count question/answer objects for profile
func BuildGenerationPrompt(profile model.InterviewProfile, count int) string {
	return fmt.Sprintf(`As an experienced technical interviewer, generate a JSON array containing exactly %d technical interview questions along with detailed answers based on the following job information. Each object in the array must have exactly the fields "question" and "answer", formatted as follows:

[
  { "question": "<Question text>", "answer": "<Answer text>" },
  ...
]

Job Information:
- Job Position: %s
- Job Description: %s
- Years of Experience Required: %s
- Tech Stacks: %s

The questions should assess skills in %s development and best practices, problem-solving, and experience handling complex requirements. Format the output strictly as an array of JSON objects without any additional labels, code blocks, code fences, or explanations. Return only the JSON array with questions and answers and nothing else.`,
		count,
		profile.Position,
		profile.Description,
		formatYears(profile.Experience),
		profile.TechStack,
		profile.TechStack)
}

// BuildEvaluationPrompt asks for a rating and feedback comparing the user's
// answer with the reference answer
func BuildEvaluationPrompt(question, referenceAnswer, userAnswer string) string {
	return fmt.Sprintf(`Question: %q
User Answer: %q
Correct Answer: %q

Compare the user's answer to the correct answer, provide a rating from 1 to 10 based on answer quality, and offer feedback for improvement.
Return only a single JSON object with the fields "ratings" (number) and "feedback" (string), for example:
{ "ratings": 7, "feedback": "<Feedback text>" }`,
		question, userAnswer, referenceAnswer)
}

func formatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}
