package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodiesEqualNormalisesLegacyShape(t *testing.T) {
	legacy := []byte(`[{"_id":"c1","code":"CS101","credits":3,"__v":0,"createdAt":"2024-01-01"}]`)
	current := []byte(`{"data":[{"id":"c1","code":"CS101","credits":3,"createdAt":"2025-02-02"}],"meta":{"cacheHit":true}}`)

	assert.True(t, bodiesEqual(current, legacy))
}

func TestBodiesEqualDetectsDifference(t *testing.T) {
	legacy := []byte(`[{"_id":"c1","code":"CS101"}]`)
	current := []byte(`{"data":[{"id":"c1","code":"CS102"}]}`)

	assert.False(t, bodiesEqual(current, legacy))
}

func TestBodiesEqualIgnoresPasswordHash(t *testing.T) {
	legacy := []byte(`{"_id":"f1","name":"Ada","password":"$2a$10$abc"}`)
	current := []byte(`{"data":{"id":"f1","name":"Ada"}}`)

	assert.True(t, bodiesEqual(current, legacy))
}
