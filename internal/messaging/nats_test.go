package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "match.mutual.42", SubjectFor("match", 42))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishMutualMatch(context.Background(), MutualMatchEvent{UserID: 1}))
}
