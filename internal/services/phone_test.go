package services

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *capturingSender) SendSMS(_ context.Context, _, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}

func (s *capturingSender) lastCode(t *testing.T) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	msg := s.messages[len(s.messages)-1]
	require.Greater(t, len(msg), phoneCodeLength)
	return msg[len(msg)-phoneCodeLength:]
}

func setupPhoneService(t *testing.T) (*PhoneService, *capturingSender, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sender := &capturingSender{}
	return NewPhoneService(client, sender), sender, mr
}

func TestPhoneVerification_HappyPath(t *testing.T) {
	svc, sender, _ := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))
	code := sender.lastCode(t)
	require.Len(t, code, phoneCodeLength)

	assert.NoError(t, svc.VerifyCode(ctx, "+15551234567", code))

	// Code is consumed after success.
	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", code), ErrCodeExpired)
}

func TestPhoneVerification_WrongCode(t *testing.T) {
	svc, sender, _ := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))

	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", "000000x"), ErrCodeMismatch)

	// Right code still works after a failed attempt.
	assert.NoError(t, svc.VerifyCode(ctx, "+15551234567", sender.lastCode(t)))
}

func TestPhoneVerification_ExpiredCode(t *testing.T) {
	svc, sender, mr := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))
	mr.FastForward(phoneCodeTTL * 2)

	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", sender.lastCode(t)), ErrCodeExpired)
}

func TestPhoneVerification_AttemptBudget(t *testing.T) {
	svc, sender, _ := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))

	for i := 0; i < phoneMaxAttempts-1; i++ {
		assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", "wrong-0"), ErrCodeMismatch)
	}
	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", "wrong-0"), ErrTooManyChecks)

	// Budget exhaustion consumes the code; even the right one is gone.
	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", sender.lastCode(t)), ErrCodeExpired)
}

func TestPhoneVerification_ConsumptionClearsBothKeys(t *testing.T) {
	svc, sender, mr := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))
	assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", "wrong-0"), ErrCodeMismatch)
	require.NoError(t, svc.VerifyCode(ctx, "+15551234567", sender.lastCode(t)))

	key := phoneCodePrefix + "+15551234567"
	assert.False(t, mr.Exists(key))
	assert.False(t, mr.Exists(key+phoneAttemptsSufx))
}

func TestPhoneVerification_NewRequestReplacesCode(t *testing.T) {
	svc, sender, _ := setupPhoneService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))
	first := sender.lastCode(t)

	require.NoError(t, svc.RequestCode(ctx, "+15551234567"))
	second := sender.lastCode(t)

	if first != second {
		assert.ErrorIs(t, svc.VerifyCode(ctx, "+15551234567", first), ErrCodeMismatch)
	}
	assert.NoError(t, svc.VerifyCode(ctx, "+15551234567", second))
}
