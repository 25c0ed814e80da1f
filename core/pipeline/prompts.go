package pipeline

import "github.com/siherrmann/kgraph/llm"

const entityExtractionSystem = `You are an expert knowledge graph builder. Extract entities and relationships from text.

**ENTITIES** are concrete things (nouns):
- People: Dr. Sarah Chen, Dr. Michael Torres
- Organizations: Stanford Medical Center, MIT, National Heart Institute
- Medical Conditions: Heart Disease, Arrhythmias
- Technologies: AI, Machine Learning Models
- Concepts: Research, Diagnostic Tools

**RELATIONSHIPS** connect two entities with action verbs:
- works_at, specializes_in, researches, collaborates_with, develops, funds, diagnoses, detects

**RULES:**
1. Extract only entities explicitly mentioned in the text
2. Do NOT extract properties (like "cardiologist" or "95%") as separate entities
3. Ensure relationship direction is correct (who does what to whom)
4. Output as JSON array of triples
**ADDITIONAL RULES:**
- DO NOT extract percentages, numbers, or statistics as entities
- Ensure relationship directions are correct (check who does what to whom)
- Include funding organizations explicitly mentioned
- Extract all people and organizations mentioned by name

**EXAMPLE OUTPUT FORMAT:**
` + "```json" + `
{
  "entities": [
    {"name": "Dr. Sarah Chen", "type": "Person"},
    {"name": "Stanford Medical Center", "type": "Organization"}
  ],
  "relationships": [
    {"source": "Dr. Sarah Chen", "relation": "works_at", "target": "Stanford Medical Center"},
    {"source": "Dr. Sarah Chen", "relation": "specializes_in", "target": "Heart Disease"}
  ]
}
` + "```" + `

Extract entities and relationships from the following text.`

const indexGenerationSystem = `You are creating a searchable index for a knowledge graph database.

For each entity, generate key-value pairs:

**ENTITY INDEX:**
- Key: The entity name (e.g., "Dr. Sarah Chen")
- Value: A 2-3 sentence summary containing:
  * What the entity is
  * Key facts and context from the text
  * Related entities and relationships

**ENTITY INDEX RULES:**
- Only include facts explicitly stated in the text
- Do not add general knowledge or hallucinate details

**EXAMPLE OUTPUT:**
` + "```json" + `
{
  "entity_index": [
    {
      "key": "Dr. Sarah Chen",
      "value": "Cardiologist at Stanford Medical Center who specializes in treating heart disease. In 2024, published research on AI diagnosis of arrhythmias achieving 95% accuracy. Collaborates with Dr. Michael Torres from MIT."
    },
    {
      "key": "Arrhythmias",
      "value": "Irregular heartbeats that can be diagnosed using AI/machine learning with 95% accuracy according to 2024 research by Dr. Sarah Chen."
    }
  ]
}
` + "```" + `

Generate the key-value index from the provided entities, relationships, and original text.`

const imageDetailPrompt = `Analyze this image in detail, considering the surrounding context.

Context from document: {context}

Provide a comprehensive description including:
- Main objects and their relationships
- Visual elements (charts, diagrams, etc.)
- How this image relates to the surrounding text
- Any technical details or data shown

Respond in 2-3 paragraphs.`

const imageEntitySummaryPrompt = `Based on this image, extract key entities for a knowledge graph.

Context: {context}
Detailed description: {description}

Output JSON format:
{
"entity_name": "Figure_X_Title",
"entity_type": "image",
"key_entities": ["entity1", "entity2"]
}`

const tableAnalysisPrompt = `Analyze this table considering the context.

Table:
{table}

Context: {context}

Extract:
1. What the table shows
2. Key data points
3. Column/row meanings
4. Relationships to surrounding text`

// EntityExtractionTemplate asks the model for entities and relationships in
// the pipeline's JSON triple format.
func EntityExtractionTemplate() *Template {
	return NewTemplate(
		llm.Message{Role: llm.RoleSystem, Content: entityExtractionSystem},
		llm.Message{Role: llm.RoleUser, Content: "{text}"},
	)
}

// IndexGenerationTemplate asks the model for per-entity searchable summaries.
func IndexGenerationTemplate() *Template {
	return NewTemplate(
		llm.Message{Role: llm.RoleSystem, Content: indexGenerationSystem},
		llm.Message{Role: llm.RoleUser, Content: "Entities and Relationships:{triples} Original Text:{text}"},
	)
}
