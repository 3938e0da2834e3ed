package orchestration

import "errors"

// ErrNoSpeechDetected is returned when the speech-to-text collaborator
// produced an empty transcript. The turn is aborted before any reasoning or
// synthesis call; the caller should re-record and resubmit.
var ErrNoSpeechDetected = errors.New("no speech detected")
