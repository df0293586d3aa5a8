package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NonEmpty(t *testing.T) {
	assert.NotEmpty(t, New())
}

func TestNew_Unique(t *testing.T) {
	assert.NotEqual(t, New(), New())
}
