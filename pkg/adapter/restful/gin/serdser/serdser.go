// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser provides the common (de)serialization helpers of
// the REST resources. Requests are bound and validated by Bind while
// errors are reported as JSON objects, either {"detail": "..."} or
// a mapping from the invalid field names to their error messages.
package serdser

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/clean-users/pkg/core/cerr"
	"github.com/momeni/clean-users/pkg/core/log"
)

// Bind decodes the request into req using the b binding and validates
// it. If it fails, the proper response is written and false is
// returned, so the caller handler may return immediately.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	var ve validator.ValidationErrors
	var ive *validator.InvalidValidationError
	err := c.ShouldBindWith(req, b)
	switch {
	case err == nil:
		return true
	case errors.As(err, &ive):
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": ive.Error(),
		})
	case errors.As(err, &ve):
		var nameToErrs map[string][]string
		for _, ferr := range ve {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// AddErr appends msgs to the name field errors, allocating the errs
// map if it is nil.
func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

// Assert adds msgs to the name field errors if ok is false. It returns
// ok, so multiple assertions can be chained.
func Assert(
	errs *map[string][]string, ok bool, name string, msgs ...string,
) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr writes err as a {"detail": "..."} JSON object. The status code
// is taken from a wrapped cerr.Error (if any). Otherwise, err is logged
// and a generic message is sent with the 500 status code, so internal
// details are not revealed to the clients.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(
		c, "request failed",
		slog.String("path", c.FullPath()),
		log.Err("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": http.StatusText(http.StatusInternalServerError),
	})
}
