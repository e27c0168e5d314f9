// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authn authenticates the REST API requests. Clients send an
// HS256 signed JWT as a bearer token whose subject is their uid.
// The Middleware loads the uid profile, parses its role once, and
// keeps the resulting model.Actor in the gin context for the resources.
// Tokens are issued out-of-band (see the token issue command).
package authn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
)

const (
	issuer     = "taxiweb"
	actorKey   = "taxiweb/actor"
	profileKey = "taxiweb/profile"
)

// ErrMissingToken indicates a request without a bearer token.
var ErrMissingToken = errors.New("missing bearer token")

// ProfileLoader loads the profile of an authenticated uid.
type ProfileLoader interface {
	Profile(ctx context.Context, uid string) (*model.UserProfile, error)
}

// IssueToken creates a token for uid which expires after ttl.
func IssueToken(secret []byte, uid string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	s, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

// ParseToken verifies the signature, issuer, and expiration time of
// the token and returns its subject uid.
func ParseToken(secret []byte, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", cerr.Authentication(err)
	}
	if claims.Subject == "" {
		return "", cerr.Authentication(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}

// Middleware authenticates requests using the secret key and loads
// their profiles using the loader which is returned by profiles.
// Requests with missing or invalid tokens, missing profiles, or
// profiles without a valid role are aborted with 401.
func Middleware[L ProfileLoader](secret []byte, profiles func() L) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": ErrMissingToken.Error(),
			})
			return
		}
		uid, err := ParseToken(secret, raw)
		if err == nil {
			var u *model.UserProfile
			u, err = profiles().Profile(c, uid)
			if err == nil {
				c.Set(profileKey, u)
				c.Set(actorKey, u.Actor())
				c.Next()
				return
			}
		}
		serdser.SerErr(c, err)
		c.Abort()
	}
}

// Actor returns the actor of an authenticated request. It returns
// the zero Actor (which fails validation) for other requests.
func Actor(c *gin.Context) model.Actor {
	a, _ := c.Get(actorKey)
	actor, _ := a.(model.Actor)
	return actor
}

// Profile returns the profile of an authenticated request or nil.
func Profile(c *gin.Context) *model.UserProfile {
	u, _ := c.Get(profileKey)
	p, _ := u.(*model.UserProfile)
	return p
}
