package types

// ViralClipPrompt is the rubric submitted to the LLM fallback backend.
// Parameters: clip count, clip duration in seconds, transcript text.
var ViralClipPrompt = `You are a VIRAL CONTENT EXPERT. Find the MOST VIRAL moments in this video transcript and create clips that will get maximum engagement.

VIRAL CONTENT CRITERIA:
1. **EMOTIONAL TRIGGERS**: Moments that make people feel strong emotions
2. **CONTROVERSIAL STATEMENTS**: Bold claims or statements that spark debate
3. **SHOCKING REVELATIONS**: Unexpected facts or surprising statistics
4. **RELATABLE PROBLEMS**: Issues that most people face
5. **ASPIRATIONAL CONTENT**: Success stories or lifestyle content
6. **HUMOR**: Genuinely funny moments
7. **EDUCATIONAL VALUE**: "Mind-blowing" facts or insights

Create exactly %d clips, each %d seconds, with realistic timestamps.

Return ONLY valid JSON:
{
  "clips": [
    {
      "start_time": "MM:SS",
      "end_time": "MM:SS",
      "title": "[VIRAL TITLE WITH CAPS AND EMOJIS]",
      "description": "Why this will go viral: [specific reason]"
    }
  ]
}

Transcript: %s`
