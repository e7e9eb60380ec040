package materials

import "fmt"

const systemPrompt = `You are a study assistant that turns course material into revision aids. You always answer with a single JSON object and nothing else.`

const generationTemplate = `Analyze the following text and perform three tasks:
1.  Generate a concise, easy-to-understand summary.
2.  Create a multiple-choice quiz with 5 questions based on the key information in the text.
3.  Generate a set of 5-10 flashcards with key terms and their definitions.

The output MUST be a single, valid JSON object. Do not include any text or formatting outside of this JSON object.

The JSON object should have the following structure:
{
    "summary": "<Your generated summary here>",
    "quiz": [
        {
            "question": "<Question 1>",
            "options": [
                "<Option A>",
                "<Option B>",
                "<Option C>",
                "<Option D>"
            ],
            "answer": "<The correct option, copied exactly from options>"
        }
    ],
    "flashcards": [
        {
            "term": "<Key Term 1>",
            "definition": "<Definition of Term 1>"
        }
    ]
}

Here is the text to analyze:
---
%s
---
`

// GenerationPrompt returns the user prompt asking for a bundle covering text.
func GenerationPrompt(text string) string {
	return fmt.Sprintf(generationTemplate, text)
}
