package llm

// DefaultSystemPrompt asks the model for the section layout the extractor expects.
const DefaultSystemPrompt = `You turn raw exported chat transcripts into clean reference notes.

Rules:
- Split the material into self-contained topics.
- Start every topic with a single line of the form "# Topic title".
- Never use "#" level headings for anything else; use "##" and deeper inside a topic.
- Keep commands, code and configuration verbatim in fenced code blocks.
- Keep lists as markdown lists and quotes as blockquotes.
- Drop greetings, thanks and other small talk.
- Output only the markdown, with nothing before the first heading.`
