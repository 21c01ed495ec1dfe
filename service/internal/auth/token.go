// Package auth issues and verifies the tokens that bind a client to the game
// it created.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "donut"

// DefaultTokenTTL is the lifetime of a game token.
const DefaultTokenTTL = 12 * time.Hour

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid game token")

// GameClaims identifies the game a token grants access to.
type GameClaims struct {
	GameID uuid.UUID `json:"gid"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 game tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a signer. A non-positive ttl uses DefaultTokenTTL.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the game.
func (s *Signer) Issue(gameID uuid.UUID) (string, error) {
	now := s.now()
	claims := GameClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   gameID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing game token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the game it grants.
func (s *Signer) Verify(token string) (uuid.UUID, error) {
	claims := &GameClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.GameID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: missing game id", ErrInvalidToken)
	}
	return claims.GameID, nil
}

// Authorize verifies the token and checks it was issued for gameID.
func (s *Signer) Authorize(token string, gameID uuid.UUID) error {
	granted, err := s.Verify(token)
	if err != nil {
		return err
	}
	if granted != gameID {
		return fmt.Errorf("%w: token is for game %s", ErrInvalidToken, granted)
	}
	return nil
}
