package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	customerRepo "salonbook/database/repository/customer"
	"salonbook/models"
	"salonbook/services/sms"
	"salonbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	codeLength     = 6
	challengeTTL   = 300 * time.Second
	resendCooldown = 60 * time.Second
	maxAttempts    = 5
)

// Local 11-digit mobile format: leading zero, then a 5xx operator prefix.
var phonePattern = regexp.MustCompile(`^05[0-9]{9}$`)

// IssueResult reports a dispatched challenge. DemoCode is only populated in
// demo mode, where no real SMS leaves the system.
type IssueResult struct {
	DemoMode bool
	DemoCode string
}

// VerifyResult reports a successful verification and whether the phone
// already mapped to an existing customer profile.
type VerifyResult struct {
	Profile        *models.CustomerProfile
	ProfileExisted bool
}

// VerificationGate issues and validates the one-time codes that unlock guest
// booking, and records messaging consent on success.
type VerificationGate interface {
	IssueCode(ctx context.Context, phone string) (*IssueResult, error)
	VerifyCode(ctx context.Context, phone, code string, consent bool) (*VerifyResult, error)
	Satisfied(ctx context.Context, customerID string) (bool, error)
}

// DefaultVerificationGate keeps challenges in Redis under the challenge TTL
// and consumes them atomically, so a code can never verify twice.
type DefaultVerificationGate struct {
	Cache     *redis.Client
	SMS       sms.Dispatcher
	Customers customerRepo.CustomerRepository
	DemoMode  bool
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func challengeKey(phone string) string { return "otp:" + phone }
func cooldownKey(phone string) string  { return "otp:cooldown:" + phone }
func lockKey(phone string) string      { return "otp:locked:" + phone }

// IssueCode validates the phone, enforces the resend cooldown, stores a fresh
// challenge and dispatches it.
func (g *DefaultVerificationGate) IssueCode(ctx context.Context, phone string) (*IssueResult, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ValidationError{Field: "phone", Reason: "must be an 11-digit mobile number starting with 05"}
	}

	ok, err := g.Cache.SetNX(ctx, cooldownKey(phone), 1, resendCooldown).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check resend cooldown: %w", err)
	}
	if !ok {
		retry, err := g.Cache.TTL(ctx, cooldownKey(phone)).Result()
		if err != nil || retry < 0 {
			retry = resendCooldown
		}
		return nil, RateLimitError{Phone: phone, RetryAfter: retry}
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	now := g.now()
	challenge := models.OTPChallenge{
		Phone:     phone,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(challengeTTL),
	}
	data, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal challenge: %w", err)
	}
	if err := g.Cache.Set(ctx, challengeKey(phone), data, challengeTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	// A fresh challenge clears any previous lock.
	g.Cache.Del(ctx, lockKey(phone))

	message := fmt.Sprintf("Your booking verification code is %s. It expires in 5 minutes.", code)
	if err := g.SMS.Send(ctx, phone, message); err != nil {
		utils.GetLogger().Error("Failed to dispatch verification code", zap.String("phone", phone), zap.Error(err))
		return nil, fmt.Errorf("failed to send verification code")
	}

	res := &IssueResult{DemoMode: g.DemoMode}
	if g.DemoMode {
		res.DemoCode = code
	}
	return res, nil
}

// VerifyCode consumes the challenge on success and records the consent flag
// on the customer's compliance record. Wrong codes count against a small
// attempt ceiling; past it the challenge is locked for its remaining TTL.
func (g *DefaultVerificationGate) VerifyCode(ctx context.Context, phone, code string, consent bool) (*VerifyResult, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ValidationError{Field: "phone", Reason: "must be an 11-digit mobile number starting with 05"}
	}

	locked, err := g.Cache.Exists(ctx, lockKey(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check lock state: %w", err)
	}
	if locked > 0 {
		return nil, LockedError{Phone: phone}
	}

	// GetDel consumes the challenge atomically: two racing verifies cannot
	// both see the stored code.
	data, err := g.Cache.GetDel(ctx, challengeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ExpiredError{Phone: phone}
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	var challenge models.OTPChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return nil, fmt.Errorf("failed to parse challenge: %w", err)
	}

	now := g.now()
	if challenge.Expired(now) {
		return nil, ExpiredError{Phone: phone}
	}

	if challenge.Code != code {
		challenge.Attempts++
		remaining := challenge.ExpiresAt.Sub(now)
		if challenge.Attempts >= maxAttempts {
			g.Cache.Set(ctx, lockKey(phone), 1, remaining)
			return nil, LockedError{Phone: phone}
		}
		restored, marshalErr := json.Marshal(challenge)
		if marshalErr == nil {
			g.Cache.Set(ctx, challengeKey(phone), restored, remaining)
		}
		return nil, ValidationError{Field: "otp", Reason: "code does not match"}
	}

	profile, existed, err := g.Customers.RecordVerification(ctx, phone, consent)
	if err != nil {
		return nil, fmt.Errorf("failed to record verification: %w", err)
	}
	return &VerifyResult{Profile: profile, ProfileExisted: existed}, nil
}

// Satisfied reports whether the identity already has a verified phone on
// file, letting the booking flow skip the verification segment entirely.
func (g *DefaultVerificationGate) Satisfied(ctx context.Context, customerID string) (bool, error) {
	if customerID == "" {
		return false, nil
	}
	profile, err := g.Customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.PhoneVerified, nil
}

// generateCode produces a zero-padded random numeric code.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}

func (g *DefaultVerificationGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
