package services

import (
	"testing"

	"github.com/chatty-ai/chatty-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCapsule() *models.AssistantCapsule {
	return &models.AssistantCapsule{
		InstanceName:    "nova-001",
		PersonalityType: "ENFP",
		Traits:          `{"warmth": 0.9, "curiosity": 0.8}`,
		PromptText:      "You are Nova.",
	}
}

func TestCapsuleSealAndVerify(t *testing.T) {
	svc := NewCapsuleService()
	capsule := testCapsule()

	require.NoError(t, svc.Seal(capsule))
	assert.Len(t, capsule.Checksum, 64)
	assert.NoError(t, svc.Verify(capsule))
}

func TestCapsuleVerify_DetectsTampering(t *testing.T) {
	svc := NewCapsuleService()
	capsule := testCapsule()
	require.NoError(t, svc.Seal(capsule))

	capsule.PromptText = "You are someone else."
	assert.ErrorIs(t, svc.Verify(capsule), ErrCapsuleIntegrity)
}

func TestCapsuleChecksum_StableAcrossTraitKeyOrder(t *testing.T) {
	svc := NewCapsuleService()

	a := testCapsule()
	a.Traits = `{"warmth": 0.9, "curiosity": 0.8}`
	b := testCapsule()
	b.Traits = `{"curiosity": 0.8, "warmth": 0.9}`

	sumA, err := svc.Checksum(a)
	require.NoError(t, err)
	sumB, err := svc.Checksum(b)
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
}

func TestCapsuleChecksum_BadTraitsJSON(t *testing.T) {
	svc := NewCapsuleService()
	capsule := testCapsule()
	capsule.Traits = "{not json"

	_, err := svc.Checksum(capsule)
	assert.Error(t, err)
}
