// Package prompt renders interview transcripts into text prompts for the
// generation backend. All functions are pure and deterministic.
package prompt

import (
	"fmt"
	"strings"

	"drill"
)

const personaTemplate = `You are a professional technical interviewer conducting a %s interview.

CRITICAL RULES:
1. Ask ONLY ONE question at a time
2. After the candidate answers, provide brief feedback (1-2 sentences)
3. Then ask the NEXT question
4. NEVER ask multiple questions in one response
5. NEVER repeat questions
6. Keep responses under 100 words
7. Be conversational and natural
8. Focus on practical, real-world scenarios
9. Progress from basic to advanced topics
10. Listen to the candidate's answer before asking the next question

RESPONSE FORMAT:
[Brief feedback on their answer]
[One new question]

Example:
"Good point about using async/await. That shows understanding of modern JavaScript.

Now, can you explain how you would handle error boundaries in a React application?"

Remember: ONE question per response. Wait for their answer before continuing.`

const warmupCue = "Interviewer: Start with a warm-up question about their background or experience. Keep it simple and conversational. Ask only ONE question."

// Persona returns the fixed interviewer persona prompt for a role.
func Persona(role string) string {
	return fmt.Sprintf(personaTemplate, role)
}

// Warmup biases the persona prompt toward a single simple opening question.
// It is used only for the first turn of a session.
func Warmup(persona string) string {
	return persona + "\n\n" + warmupCue
}

// Turn concatenates the persona prompt with the transcript rendered as
// alternating "Candidate:" / "Interviewer:" lines, ending with a trailing
// "Interviewer: " cue so the backend continues as the interviewer.
func Turn(persona string, transcript []drill.Turn) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	for _, turn := range transcript {
		if turn.Speaker == drill.SpeakerCandidate {
			b.WriteString("Candidate: ")
		} else {
			b.WriteString("Interviewer: ")
		}
		b.WriteString(turn.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Interviewer: ")
	return b.String()
}
