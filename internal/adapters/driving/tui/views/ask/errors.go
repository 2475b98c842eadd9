package ask

import "errors"

// ErrNoAnswerService is returned when no answer service is wired.
var ErrNoAnswerService = errors.New("answer service not available")
