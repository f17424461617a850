package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_BuildsForBothEnvironments(t *testing.T) {
	for _, environment := range []string{"production", "development"} {
		log, err := New(environment, "consumer")
		assert.NoError(t, err)
		assert.NotNil(t, log)
	}
}
