package core

import "fmt"

// prompts.go holds the triage prompt wording. Keeping the prompts in one
// file makes them easy to tweak without touching the pipeline code.

// EmergencyWarning is the fixed reply for red-flag symptoms. It is returned
// verbatim, bypassing the rest of the pipeline.
const EmergencyWarning = "**EMERGENCY WARNING**...\n" +
	"Based on your symptoms, you may require immediate medical attention.\n" +
	"Please contact your local emergency services or go to the nearest hospital right away."

// redFlagPrompt asks for a strict true/false emergency triage decision.
func redFlagPrompt(userInput string) string {
	return fmt.Sprintf(`You are a medical triage expert. Your task is to determine if the user's statement contains any critical, life-threatening symptoms.
These are considered "red flags".

Red flag symptoms include, but are not limited to:
- Chest pain or pressure
- Difficulty breathing or shortness of breath
- Severe headache, especially if sudden
- Weakness, numbness, or paralysis, especially on one side of the body
- Confusion or altered mental state
- Slurred speech
- Seizures
- High fever with a stiff neck
- Severe abdominal pain
- Uncontrolled bleeding
- Thoughts of self-harm or suicide
- Mention of a serious diagnosis like 'cancer', 'heart attack', 'stroke'

User input: "%s"

Based on this input, does it contain any red flag symptoms? Answer with only "true" or "false".`, userInput)
}

// specialtyPrompt asks for a single medical specialty label.
func specialtyPrompt(userInput string) string {
	return fmt.Sprintf(`You are a medical expert. Based on the following symptoms, what is the most appropriate medical specialty to consult?
Choose from common specialties like General Physician, ENT, Dermatologist, Orthopedic, Gynecologist, Cardiologist, etc.
Return only the name of the specialty.

Symptoms: "%s"
Specialty:`, userInput)
}

// matchPrompt asks for the single best matching past appointment, or an
// empty JSON object when nothing is genuinely similar.
func matchPrompt(userSymptoms, candidatesJSON string) string {
	return fmt.Sprintf(`You are a medical data analysis expert. A patient has reported new symptoms, and I need you to find the most relevant past appointment from their history.

The patient's new symptoms are: "%s"

Here is a list of their past appointments in JSON format:
%s

Your task is to compare the new symptoms with the 'symptomsText' of each past appointment.
**Crucial Rule:** Only return a match if the new symptoms are genuinely and semantically similar to the past symptoms. A vague similarity is not enough.
For example, if the new symptom is "cancer", and the past symptoms are "fever and cough", this is NOT a match.
If the new symptom is "sore throat and fever" and a past symptom is "throat pain, fever, cough", this IS a good match.

If you find a genuinely similar appointment, respond with only the JSON object of that single best match.
If you do NOT find any good match, you MUST respond with an empty JSON object: {}.`, userSymptoms, candidatesJSON)
}

// composePrompt asks for the final user-facing message combining the
// history analysis, the optional routing notice, and the disclaimer.
func composePrompt(userInput, suggestion, routingMessage, callToAction string) string {
	return fmt.Sprintf(`You are a helpful medical assistant chatbot.
A user has described their symptoms as: "%s".

Here is the AI's analysis based on their past records:
---
%s
---
%s

Your task is to combine this information into a single, clear message for the user.
1. Present the AI's analysis.
2. If a routing message exists, present it.
3. Add a strong disclaimer at the end. The disclaimer's message should be: "%s"

Generate a friendly, reassuring, and well-structured response.`, userInput, suggestion, routingMessage, callToAction)
}
