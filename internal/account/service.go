// Copyright (c) 2026 Robin CRM. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/robin-crm/robin/internal/auth"
	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/sec"
	"github.com/robin-crm/robin/pkg/pagination"
	"github.com/robin-crm/robin/pkg/pointer"
	"github.com/robin-crm/robin/pkg/uuidv7"
)

// Service implements the account administration use cases. Route-level
// enforcement (top role only) is the gatekeeper's job; this service assumes
// an authorized caller.
type Service struct {
	accounts Repository
}

// NewService constructs the account [Service].
func NewService(accounts Repository) *Service {
	return &Service{accounts: accounts}
}

// List returns one page of accounts with pagination metadata.
func (service *Service) List(ctx context.Context, params pagination.Params) ([]auth.User, pagination.Meta, error) {
	users, total, err := service.accounts.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Create provisions a new account.
//
// New accounts always get a bcrypt hash; the legacy plaintext column exists
// only for imported records and is never written by this path.
func (service *Service) Create(ctx context.Context, input CreateInput) (*auth.User, error) {
	if !auth.ParseRole(input.Role).Known() {
		return nil, apperr.ValidationError("Unknown role: " + input.Role)
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: &hash,
		Role:         string(auth.ParseRole(input.Role)),
		Status:       auth.StatusActive,
		Team:         input.Team,
	}

	if err := service.accounts.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update applies a partial edit to an account. Nil fields keep their
// current value.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*auth.User, error) {
	user, err := service.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !auth.ParseRole(*input.Role).Known() {
		return nil, apperr.ValidationError("Unknown role: " + *input.Role)
	}
	if input.Status != nil && *input.Status != auth.StatusActive && *input.Status != auth.StatusInactive {
		return nil, apperr.ValidationError("Status must be active or inactive")
	}

	user.Name = pointer.Deref(input.Name, user.Name)
	user.Status = pointer.Deref(input.Status, user.Status)
	if input.Role != nil {
		user.Role = string(auth.ParseRole(*input.Role))
	}
	if input.Team != nil {
		user.Team = input.Team
	}

	if err := service.accounts.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Deactivate transitions an account to inactive, blocking future logins.
// The record and its grant history remain.
func (service *Service) Deactivate(ctx context.Context, id string) error {
	_, err := service.Update(ctx, id, UpdateInput{Status: pointer.To(auth.StatusInactive)})
	return err
}
