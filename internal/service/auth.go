package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/repository"
)

// Claims represents JWT claims
type Claims struct {
	MemberID string `json:"member_id"`
	ClubID   string `json:"club_id"`
	jwt.RegisteredClaims
}

// AuthService handles authentication and JWT operations
type AuthService struct {
	roster    repository.RosterRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(roster repository.RosterRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		roster:    roster,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Login generates a JWT token for a club member
func (s *AuthService) Login(ctx context.Context, memberID string) (string, error) {
	if memberID == "" {
		return "", domain.ErrMissingID
	}

	// Get member to verify existence and get club info
	member, err := s.roster.GetMember(ctx, memberID)
	if err != nil {
		return "", err
	}

	return s.issue(member.ID, member.ClubID, time.Now())
}

func (s *AuthService) issue(memberID, clubID string, now time.Time) (string, error) {
	claims := &Claims{
		MemberID: memberID,
		ClubID:   clubID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
