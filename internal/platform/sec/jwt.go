// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT verification) from the
// domain logic. The core trusts the verified [AdminContext] completely and
// performs no independent authorization — identity resolution is an external
// collaborator's job; this package only checks the signature on its output.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminContext is the payload embedded inside an admin-context JWT.
//
// It identifies which tenant the caller operates on and with which role.
// Every service call in the ePaper core is scoped by TenantID.
type AdminContext struct {
	jwt.RegisteredClaims

	// Custom claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	Role     string `json:"rol"`
}

// IsAdmin reports whether the caller holds at least tenant-admin rights.
func (c *AdminContext) IsAdmin() bool {
	return AdminRole(c.Role).AtLeast(RoleAdmin)
}

// IsSuperAdmin reports whether the caller holds platform-wide rights.
func (c *AdminContext) IsSuperAdmin() bool {
	return AdminRole(c.Role) == RoleSuperAdmin
}

// TokenService handles generation and verification of JWT tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}, nil
}

// GenerateToken creates a new admin-context token.
//
// Only the identity service calls this in production; it exists here so
// integration environments can mint tokens without a second binary.
func (service *TokenService) GenerateToken(userID, tenantID, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AdminContext{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signed, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a token string, returning the embedded
// [AdminContext] on success.
func (service *TokenService) VerifyToken(tokenStr string) (*AdminContext, error) {
	claims := &AdminContext{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("sec: token is invalid")
	}

	return claims, nil
}
