package workflow

// Status is a read-only snapshot of the session for the presentation layer.
type Status struct {
	State       string            `json:"state"`
	Description string            `json:"description,omitempty"`
	ImageCount  int               `json:"image_count"`
	HasImage    bool              `json:"has_image"`
	PromptKind  string            `json:"prompt_kind,omitempty"`
	PromptText  string            `json:"prompt_text,omitempty"`
	Translated  string            `json:"translated,omitempty"`
	Recommended []string          `json:"recommended_voices,omitempty"`
	Voice       string            `json:"voice,omitempty"`
	Playing     bool              `json:"playing"`
	Error       string            `json:"error,omitempty"`
	InlineErrs  map[string]string `json:"inline_errors,omitempty"`
}

// CurrentStatus snapshots the session. A showing_result state with no
// selected image is an invariant violation; it resets the session instead of
// reporting the broken state.
func (c *Controller) CurrentStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateShowingResult && c.selected == nil {
		c.resetLocked()
	}

	s := Status{
		State:       c.state.String(),
		Description: c.description,
		ImageCount:  len(c.images),
		HasImage:    c.selected != nil,
		Recommended: append([]string(nil), c.recommended...),
		Voice:       c.voice,
		Error:       c.fatalMsg,
	}
	if c.state == StateShowingResult {
		s.PromptKind = string(c.prompt.Kind)
		s.PromptText = c.prompt.Text
		s.Translated = c.prompt.Translated
	}
	if c.player != nil {
		s.Playing = c.player.Playing()
	}
	if len(c.inlineErrs) > 0 {
		s.InlineErrs = make(map[string]string, len(c.inlineErrs))
		for o, msg := range c.inlineErrs {
			s.InlineErrs[string(o)] = msg
		}
	}
	return s
}

// Images returns the candidate set for rendering. Empty outside selection.
func (c *Controller) Images() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.images))
	for i, img := range c.images {
		out[i] = img.Bytes
	}
	return out
}

// Image returns one candidate's bytes and MIME type for rendering.
func (c *Controller) Image(index int) (data []byte, mimeType string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.images) {
		return c.images[index].Bytes, c.images[index].MIMEType, true
	}
	if index == 0 && c.selected != nil {
		return c.selected.Bytes, c.selected.MIMEType, true
	}
	return nil, "", false
}
