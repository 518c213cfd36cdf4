package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chatty-ai/chatty-api/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	phoneCodeTTL      = 10 * time.Minute
	phoneCodeLength   = 6
	phoneCodePrefix   = "phone_code:"
	phoneMaxAttempts  = 5
	phoneAttemptsSufx = ":attempts"
)

var (
	ErrCodeExpired   = errors.New("verification code expired or not requested")
	ErrCodeMismatch  = errors.New("verification code does not match")
	ErrTooManyChecks = errors.New("too many verification attempts")
)

// SMSSender delivers one verification code. The concrete carrier integration
// lives outside this service.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// PhoneService issues and checks short-lived phone verification codes backed
// by redis.
type PhoneService struct {
	client *redis.Client
	sender SMSSender
}

func NewPhoneService(client *redis.Client, sender SMSSender) *PhoneService {
	return &PhoneService{client: client, sender: sender}
}

// RequestCode generates a fresh 6-digit code, stores it with a TTL, and sends
// it to the phone. A new request replaces any outstanding code.
func (s *PhoneService) RequestCode(ctx context.Context, phone string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating verification code: %w", err)
	}

	key := phoneCodePrefix + phone
	if err := s.client.Set(ctx, key, code, phoneCodeTTL).Err(); err != nil {
		return fmt.Errorf("storing verification code: %w", err)
	}
	if err := s.client.Del(ctx, key+phoneAttemptsSufx).Err(); err != nil {
		return fmt.Errorf("resetting attempt counter: %w", err)
	}

	if err := s.sender.SendSMS(ctx, phone, "Your Chatty verification code is "+code); err != nil {
		return fmt.Errorf("sending verification code: %w", err)
	}

	logger.Info("Phone verification code issued", logger.Fields{"phone": phone})
	return nil
}

// VerifyCode checks the submitted code. Success consumes the code; repeated
// failures consume it too once the attempt budget runs out.
func (s *PhoneService) VerifyCode(ctx context.Context, phone, code string) error {
	key := phoneCodePrefix + phone

	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("reading verification code: %w", err)
	}

	if stored != code {
		attempts, err := s.client.Incr(ctx, key+phoneAttemptsSufx).Result()
		if err != nil {
			return fmt.Errorf("counting attempts: %w", err)
		}
		if attempts >= phoneMaxAttempts {
			s.consumeCode(ctx, phone, key)
			return ErrTooManyChecks
		}
		return ErrCodeMismatch
	}

	s.consumeCode(ctx, phone, key)
	return nil
}

// consumeCode removes the code and its attempt counter. A failed delete
// leaves the code to its TTL; that is logged, not surfaced.
func (s *PhoneService) consumeCode(ctx context.Context, phone, key string) {
	if err := s.client.Del(ctx, key, key+phoneAttemptsSufx).Err(); err != nil {
		logger.Error("Failed to consume verification code", err, logger.Fields{"phone": phone})
	}
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < phoneCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", phoneCodeLength, n), nil
}
