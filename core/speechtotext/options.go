// Package speechtotext defines the transcription contract for one audio
// clip per turn. Streaming and interim results are out of scope: a clip goes
// in, a best-effort transcript comes out.
package speechtotext

type TranscriptionOptions struct {
	Model       string
	Language    string
	SmartFormat bool
}

func DefaultTranscriptionOptions() TranscriptionOptions {
	return TranscriptionOptions{
		Model:       "nova-3",
		Language:    "en-US",
		SmartFormat: true,
	}
}

type TranscriptionOption func(*TranscriptionOptions)

func WithModel(model string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Model = model
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

func WithSmartFormat(smartFormat bool) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SmartFormat = smartFormat
	}
}
