package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHudURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", hudURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000/", hudURL("127.0.0.1:9000"))
}
