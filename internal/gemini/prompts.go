package gemini

// voicePromptInstruction asks for narration text a single voice can read as-is.
const voicePromptInstruction = `You are a narration writer for an audio description service.

Look at this image and write ONE short narration script (60-100 words) that a single synthetic voice will read aloud.

Rules:
- Describe what is visible: subjects, setting, light, mood, motion.
- Present tense, second person nowhere; write as a calm observer.
- No camera or photography terms, no markdown, no stage directions.
- The text must stand alone when heard without seeing the image.

Output format: ONLY the narration text. No quotes, no preamble.`

// soundscapePromptInstruction asks for a sound-design brief instead of narration.
const soundscapePromptInstruction = `You are a sound designer for an audio description service.

Look at this image and write ONE ambient soundscape brief (60-100 words) describing the audio scene that matches it.

Rules:
- Describe SOUNDS only: foreground events, background ambience, textures, dynamics, distance.
- Name concrete sources: "gravel underfoot", "distant gull cries", "slow surf on shingle".
- Include an overall mood and rough loudness arc.
- No music theory jargon, no markdown, no visual-only description.

Output format: ONLY the brief text. No quotes, no preamble.`

// translateInstructionFormat carries the target language and source text.
const translateInstructionFormat = `Translate the following text into %s. Output ONLY the translation, preserving tone and sentence rhythm. No preamble, no quotes.

%s`

// recommendInstructionFormat carries the voice catalog and the prompt to match.
const recommendInstructionFormat = `You match narration text to synthetic voices.

Available voices: %s

Pick up to 3 voices from the list above that best suit reading the text below, best first.

Output format: ONLY a comma-separated list of voice names from the list. Nothing else.

Text:
%s`
