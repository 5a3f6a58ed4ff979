package web

import (
	"testing"

	"limsmock/pkg/domain"

	"github.com/stretchr/testify/assert"
)

func TestSessionValues(t *testing.T) {
	s := NewSession()
	_, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, s.Samples())

	s.Set(SessionSamplesKey, "not samples")
	assert.Nil(t, s.Samples())

	s.Set(SessionSamplesKey, []domain.Sample{domain.NewSample("S1", "one")})
	assert.Len(t, s.Samples(), 1)
}
