package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUsername(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		expected string
		ok       bool
	}{
		{"full topic", "sps/john_mc12345678/sensor/status", "john_mc12345678", true},
		{"two segments", "sps/john_mc12345678", "john_mc12345678", true},
		{"base only", "sps", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, ok := ParseUsername(tt.topic)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, username)
		})
	}
}

func TestSplitUsername(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		owner  string
		mcCode string
		ok     bool
	}{
		{"simple", "john_mc12345678", "john", "mc12345678", true},
		{"owner with underscores", "john_doe_mc12345678", "john_doe", "mc12345678", true},
		{"no underscore", "johnmc12345678", "", "", false},
		{"leading underscore", "_mc12345678", "", "", false},
		{"trailing underscore", "john_", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, mcCode, ok := SplitUsername(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.mcCode, mcCode)
		})
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	owner, mcCode, ok := SplitUsername(JoinUsername("alice_b", "mcabc"))
	assert.True(t, ok)
	assert.Equal(t, "alice_b", owner)
	assert.Equal(t, "mcabc", mcCode)
}

func TestBuildTopic(t *testing.T) {
	assert.Equal(t, "sps/john_mc1/provision/response", BuildTopic("sps", "john_mc1", "provision/response"))
}

func TestTopicHelpers(t *testing.T) {
	assert.True(t, HasMinimumParts("sps/u/status", 3))
	assert.False(t, HasMinimumParts("sps/u", 3))
	assert.True(t, TopicEndsWith("sps/u/entry/request", "entry/request"))
	assert.False(t, TopicEndsWith("sps/u/exit/request", "entry/request"))
}
