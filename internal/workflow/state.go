package workflow

// State is the session's phase. Exactly one exists per session and it alone
// decides which operations are legal.
type State int

const (
	StateIdle State = iota
	StateGeneratingImage
	StateSelectingImage
	StateAnalyzingImage
	StateShowingResult
	StateError
)

// String returns the wire name used by the status API.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGeneratingImage:
		return "generating_image"
	case StateSelectingImage:
		return "selecting_image"
	case StateAnalyzingImage:
		return "analyzing_image"
	case StateShowingResult:
		return "showing_result"
	case StateError:
		return "error"
	}
	return "unknown"
}

// PromptKind selects which flavor of audio-descriptive prompt is generated
// for the selected image.
type PromptKind string

const (
	KindVoice      PromptKind = "voice"
	KindSoundscape PromptKind = "soundscape"
)

// PromptRecord is the current prompt for the selected image. Translated is
// reset whenever Text changes: new generation, new kind, or new source image.
type PromptRecord struct {
	Kind       PromptKind
	Text       string
	Translated string
}

// op names one user-triggered operation with an independent in-flight guard.
type op string

const (
	opGenerate  op = "image generation"
	opAnalyze   op = "image analysis"
	opTranslate op = "translation"
	opSpeak     op = "speech"
	opRecommend op = "voice recommendation"
	opSwitch    op = "prompt switch"
)
