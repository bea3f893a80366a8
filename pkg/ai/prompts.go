package ai

const VariationPrompt = `
# Task Context
You are an assistant that rephrases biomedical research questions so that a
graph-ranking system can test whether its results depend on exact wording.

# Background Data
Original question: "%s"

# Detailed Task Description & Rules
- Produce exactly three variations of the question:
  * a paraphrase that keeps the same meaning in different words
  * a generalization that broadens the scope one level
  * a specialization that narrows the scope one level
- Keep gene symbols, disease names, and drug names unchanged.
- Each variation must be a single question, no explanations.

# Output Formatting
Return a JSON object with this structure:
{
  "variations": ["<paraphrase>", "<generalization>", "<specialization>"]
}
`

const CritiquePrompt = `
# Task Context
You are a reviewer checking whether evidence surfaced from a biomedical
knowledge graph actually answers a research question.

# Background Data
Question: "%s"

Top-ranked evidence (graph node labels, strongest first):
%s

# Detailed Task Description & Rules
- Judge whether the evidence plausibly addresses the question.
- Check for these failure modes:
  * off_topic: the evidence does not relate to the question's subject
  * too_generic: the evidence is correct but uninformative
  * missing_mechanism: the question asks how/why and the evidence only names entities
  * single_source_bias: all evidence comes from one corner of the graph
- Fail the review only when a failure mode clearly applies.
- When failing, the critique must say what a better query should emphasize.

# Output Formatting
Return a JSON object with this structure:
{
  "passed": true,
  "critique": "<one or two sentences>",
  "detected_failure_modes": ["<mode>", ...]
}
`
