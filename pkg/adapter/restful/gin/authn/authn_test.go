// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authn_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

type profiles map[string]model.UserProfile

func (p profiles) Profile(_ context.Context, uid string) (*model.UserProfile, error) {
	u, ok := p[uid]
	if !ok {
		return nil, cerr.Authentication(&model.NotFoundError{Collection: "users", ID: uid})
	}
	if u.Role.Validate() != nil {
		return nil, cerr.Authentication(model.ErrInvalidRole)
	}
	return &u, nil
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := authn.IssueToken(secret, "d1", time.Hour)
	require.NoError(t, err)
	uid, err := authn.ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "d1", uid)

	_, err = authn.ParseToken([]byte("another secret of enough length!"), tok)
	assert.Equal(t, http.StatusUnauthorized, cerr.StatusOf(err))

	expired, err := authn.IssueToken(secret, "d1", -time.Minute)
	require.NoError(t, err)
	_, err = authn.ParseToken(secret, expired)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := profiles{
		"d1":     {UID: "d1", Role: model.RoleDriver},
		"broken": {UID: "broken", Role: model.RoleInvalid},
	}
	e := gin.New()
	e.Use(authn.Middleware(secret, func() profiles { return p }))
	e.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, authn.Actor(c).Role.String())
	})

	send := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if uid != "" {
			tok, err := authn.IssueToken(secret, uid, time.Hour)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}

	w := send("d1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "driver", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, send("").Code)
	assert.Equal(t, http.StatusUnauthorized, send("nobody").Code)
	assert.Equal(t, http.StatusUnauthorized, send("broken").Code)
}
