package symptom

// Prompt templates sent to the generative service. Kept in one file so the
// wording can be tuned without touching the pipeline code.

const extractPromptTemplate = `You are a medical assistant.
Extract all **medical symptoms** mentioned in the following transcript.
Include both direct symptoms (e.g., 'fever', 'cough') and indirect or less obvious symptoms (e.g., 'loss of appetite', 'loss of smell or taste').
Also include any **pain descriptions**, such as headaches, stomach pain, chest tightness, or any mention of discomfort, even if described vividly (e.g., 'my head feels like it's being hit with a hammer').
Return the result strictly as a JSON array of strings, e.g., ["fever", "cough", "loss of smell", "severe headache"].

Transcript:
%s`

const predictPromptTemplate = `You are a knowledgeable and careful medical assistant.
Analyze the following list of symptoms and medical context to predict possible ailments.
Consider both direct and indirect symptoms, chronic conditions, recent medical events, and lifestyle indicators.
Be accurate, use common medical reasoning, and provide output strictly as a JSON object in the following structure:
{
  "possibleAilments": [
    {
      "name": "Name of the possible ailment",
      "confidence": "high" | "medium" | "low",
      "description": "A concise explanation of why this ailment is suspected based on symptoms and context."
    },
    ... (you may list multiple possibilities)
  ],
  "recommendations": [
    "Practical medical advice or next steps the user should take (e.g., rest, hydration, visit a specialist, etc.)"
  ],
  "urgency": "high" | "medium" | "low",
  "shouldSeeDoctor": true | false
}

Symptoms: %s
Medical Context:
%s`
