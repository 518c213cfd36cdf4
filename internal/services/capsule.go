package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/chatty-ai/chatty-api/internal/models"
)

// ErrCapsuleIntegrity is returned when a stored capsule's checksum no longer
// matches its content.
var ErrCapsuleIntegrity = fmt.Errorf("capsule integrity check failed")

// CapsuleService computes and verifies the integrity checksum over a
// capsule's identity-bearing fields. The checksum input is canonical JSON so
// it is stable regardless of trait insertion order.
type CapsuleService struct{}

func NewCapsuleService() *CapsuleService {
	return &CapsuleService{}
}

// Checksum computes the sha256 over the capsule's canonical form.
func (s *CapsuleService) Checksum(capsule *models.AssistantCapsule) (string, error) {
	canonical, err := canonicalCapsuleJSON(capsule)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Seal recomputes and stores the capsule's checksum. Call before every write.
func (s *CapsuleService) Seal(capsule *models.AssistantCapsule) error {
	checksum, err := s.Checksum(capsule)
	if err != nil {
		return err
	}
	capsule.Checksum = checksum
	return nil
}

// Verify recomputes the checksum and compares it with the stored one. Call on
// every read.
func (s *CapsuleService) Verify(capsule *models.AssistantCapsule) error {
	checksum, err := s.Checksum(capsule)
	if err != nil {
		return err
	}
	if checksum != capsule.Checksum {
		return ErrCapsuleIntegrity
	}
	return nil
}

func canonicalCapsuleJSON(capsule *models.AssistantCapsule) ([]byte, error) {
	// Traits is stored as a JSON document; decode and re-encode so key order
	// never affects the checksum.
	traits := map[string]any{}
	if capsule.Traits != "" {
		if err := json.Unmarshal([]byte(capsule.Traits), &traits); err != nil {
			return nil, fmt.Errorf("decoding traits: %w", err)
		}
	}

	// encoding/json sorts map keys, which gives us the canonical form.
	return json.Marshal(map[string]any{
		"instance_name":    capsule.InstanceName,
		"personality_type": capsule.PersonalityType,
		"traits":           traits,
		"prompt_text":      capsule.PromptText,
	})
}
