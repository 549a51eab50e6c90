// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/goccy/go-json"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func bind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(
		http.MethodPost, "/login", strings.NewReader(body),
	)
	c.Request.Header.Set("Content-Type", "application/json")
	ok := serdser.Bind(c, &loginReq{}, binding.JSON)
	return w, ok
}

func TestBind(t *testing.T) {
	_, ok := bind(t, `{"email":"a@b.c","password":"p"}`)
	assert.True(t, ok)

	w, ok := bind(t, `{"email":"a@b.c"}`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errs map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errs))
	assert.Contains(t, errs, "Password")
	assert.NotContains(t, errs, "Email")

	w, ok = bind(t, `{"email":`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)
}

func TestAssert(t *testing.T) {
	var errs map[string][]string
	assert.True(t, serdser.Assert(&errs, true, "id", "never added"))
	assert.Nil(t, errs)
	assert.False(t, serdser.Assert(&errs, false, "id", "first"))
	serdser.AddErr(&errs, "id", "second")
	assert.Equal(t, map[string][]string{"id": {"first", "second"}}, errs)
}

func TestSerErr(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		detail string
	}{
		{
			err:    fmt.Errorf("x: %w", cerr.NotFound(errors.New("no user"))),
			code:   http.StatusNotFound,
			detail: "no user",
		},
		{
			err:    cerr.Conflict(errors.New("email is taken")),
			code:   http.StatusConflict,
			detail: "email is taken",
		},
		{
			err:    errors.New("dial tcp 10.0.0.1:5432: refused"),
			code:   http.StatusInternalServerError,
			detail: "Internal Server Error",
		},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		serdser.SerErr(c, tc.err)
		assert.Equal(t, tc.code, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"detail": tc.detail}, body)
	}
}
