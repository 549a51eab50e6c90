// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource, allowing the users
// management REST APIs to be accepted and delegated to the users use
// cases respectively.
package usersrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/clean-users/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/clean-users/pkg/core/model"
)

// UseCase represents the users use cases which are exposed by this
// resource. It is implemented by the *usersuc.UseCase type.
type UseCase interface {
	Create(ctx context.Context, nu model.NewUser) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateByID(
		ctx context.Context, id uuid.UUID, p model.UserPatch,
	) (*model.User, error)
	UpdateByEmail(
		ctx context.Context, email string, p model.UserPatch,
	) (*model.User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (
		*model.Session, error,
	)
}

type resource struct {
	users UseCase
}

// Register instantiates a resource adapting the users use case
// instance with the relevant REST APIs including:
//  1. POST request to /users/create
//     in order to register a new user,
//  2. GET, PUT, and DELETE requests to /users/id/:id
//     in order to fetch, update, or delete a user by its UUID,
//  3. GET, PUT, and DELETE requests to /users/email/:email
//     in order to fetch, update, or delete a user by its email, and
//  4. POST request to /users/login
//     in order to verify a password and obtain an access token.
//
// The paths are relative to the r router group.
func Register(r *gin.RouterGroup, users UseCase) {
	rs := &resource{users: users}
	g := r.Group("users")
	g.POST("create", rs.Create)
	g.GET("id/:id", rs.GetByID)
	g.PUT("id/:id", rs.UpdateByID)
	g.DELETE("id/:id", rs.DeleteByID)
	g.GET("email/:email", rs.GetByEmail)
	g.PUT("email/:email", rs.UpdateByEmail)
	g.DELETE("email/:email", rs.DeleteByEmail)
	g.POST("login", rs.Login)
}

func (rs *resource) Create(c *gin.Context) {
	req := rs.DserCreateReq(c)
	if req == nil {
		return
	}
	u, err := rs.users.Create(c, *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) GetByID(c *gin.Context) {
	id, ok := rs.DserID(c)
	if !ok {
		return
	}
	u, err := rs.users.GetByID(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) GetByEmail(c *gin.Context) {
	u, err := rs.users.GetByEmail(c, c.Param("email"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) UpdateByID(c *gin.Context) {
	id, ok := rs.DserID(c)
	if !ok {
		return
	}
	p := rs.DserUpdateReq(c)
	if p == nil {
		return
	}
	u, err := rs.users.UpdateByID(c, id, *p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) UpdateByEmail(c *gin.Context) {
	p := rs.DserUpdateReq(c)
	if p == nil {
		return
	}
	u, err := rs.users.UpdateByEmail(c, c.Param("email"), *p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) DeleteByID(c *gin.Context) {
	id, ok := rs.DserID(c)
	if !ok {
		return
	}
	if err := rs.users.DeleteByID(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (rs *resource) DeleteByEmail(c *gin.Context) {
	if err := rs.users.DeleteByEmail(c, c.Param("email")); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (rs *resource) Login(c *gin.Context) {
	req := rs.DserLoginReq(c)
	if req == nil {
		return
	}
	s, err := rs.users.Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
