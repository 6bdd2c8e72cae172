package llm

import "fmt"

// ragPromptFormat is the grounded-answer prompt. The context block carries
// positional source labels, so the instructions refer to "the Context below".
const ragPromptFormat = `You are a friendly and helpful tourist guide for Częstochowa, Poland.

INSTRUCTIONS:
1. Answer the question using ONLY the information from the Context below.
2. If the context contains relevant information, provide a helpful answer with specific details (names, addresses, ratings).
3. If the context contains RELATED information (e.g., user asks about "Jasna Góra" and context mentions "Wieża Jasnogórska" or related sites), use that information and explain the connection.
4. Be conversational and helpful. Recommend the best options based on ratings.
5. If you truly cannot find relevant information, politely say so and suggest what IS available.

Context:
%s

Question: %s

Answer:`

// BuildRAGPrompt assembles the full prompt from a question and its retrieved
// context block. An empty context yields the bare question so the model is
// not instructed to ground an answer in nothing.
func BuildRAGPrompt(question, context string) string {
	if context == "" {
		return question
	}
	return fmt.Sprintf(ragPromptFormat, context, question)
}
