// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	gogin "github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin"
	"github.com/momeni/clean-users/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	defer slog.SetDefault(prev)

	e := gin.New(gin.RequestID())
	e.GET("/ping", func(c *gogin.Context) {
		log.Info(c, "pong")
		c.Status(http.StatusNoContent)
	})

	given := uuid.NewString()
	for _, tc := range []struct {
		name, header string
		keep         bool
	}{
		{"valid id is kept", given, true},
		{"missing id", "", false},
		{"malformed id", "not-a-uuid", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set(gin.RequestIDHeader, tc.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)
			require.Equal(t, http.StatusNoContent, w.Code)
			id := w.Header().Get(gin.RequestIDHeader)
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			if tc.keep {
				assert.Equal(t, tc.header, id)
			}
			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, id, rec["request_id"])
		})
	}
}
