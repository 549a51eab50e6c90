// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-users/pkg/core/model"
)

type createReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateReq struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=1"`
}

// loginReq accepts an empty (or missing) password, so it is verified
// and rejected like any other wrong password.
type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

func (rs *resource) DserCreateReq(c *gin.Context) *model.NewUser {
	req := &createReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &model.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
}

func (rs *resource) DserUpdateReq(c *gin.Context) *model.UserPatch {
	req := &updateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	p := &model.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if p.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "One of name, email, or password is required.",
		})
		return nil
	}
	return p
}

func (rs *resource) DserLoginReq(c *gin.Context) *loginReq {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

func (rs *resource) DserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "id", "Path param id is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return id, true
}
