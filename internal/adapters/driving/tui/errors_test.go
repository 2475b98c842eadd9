package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingAnswerService_Message(t *testing.T) {
	assert.Equal(t, "tui: answer service is required", ErrMissingAnswerService.Error())
}
