package helpers_test

import (
	"testing"

	"github.com/julien-sobczak/nimbus2md/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", helpers.Hash([]byte("")))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", helpers.Hash([]byte("hello")))
}
