// Package texttospeech defines the synthesis contract: reply text in, a
// reference to hosted audio out. The voice configuration is fixed per
// deployment rather than chosen per turn.
package texttospeech

type SynthesisOptions struct {
	VoiceID string
	Style   string
	Locale  string
}

func DefaultSynthesisOptions() SynthesisOptions {
	return SynthesisOptions{
		VoiceID: "en-UK-ruby",
		Style:   "Conversational",
		Locale:  "en-US",
	}
}

type SynthesisOption func(*SynthesisOptions)

func WithVoice(voiceID string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.VoiceID = voiceID
	}
}

func WithStyle(style string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Style = style
	}
}

func WithLocale(locale string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Locale = locale
	}
}
