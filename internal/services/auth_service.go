// auth_service.go
//
// Client, project and employee management service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of clientsdb.
// clientsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// clientsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with clientsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/metrics"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
)

// ErrTokensDisabled is returned by IssueToken when no signing secret is configured.
var ErrTokensDisabled = errors.New("bearer tokens are not enabled")

// Requirement is what an operation demands of the caller's principal.
type Requirement struct {
	Role models.Role
}

// RequireAuthenticated accepts any authenticated principal.
var RequireAuthenticated = Requirement{}

// RequireRole accepts only principals carrying role.
func RequireRole(role models.Role) Requirement {
	return Requirement{Role: role}
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Username string      `json:"username" validate:"required,min=3,max=255"`
	Email    string      `json:"email" validate:"omitempty,email,max=255"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// LoginInput is the payload of a login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Token is an issued bearer token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuthGate authenticates callers and checks their role against an
// operation's requirement. It keeps no session state: every request is
// authenticated again, by password or by a signed token.
type AuthGate struct {
	store  *repository.Store
	hasher auth.PasswordHasher
	tokens *auth.TokenIssuer
	log    logrus.FieldLogger
}

// NewAuthGate creates the gate. tokens may be nil to disable bearer tokens.
func NewAuthGate(store *repository.Store, hasher auth.PasswordHasher, tokens *auth.TokenIssuer, log logrus.FieldLogger) *AuthGate {
	return &AuthGate{store: store, hasher: hasher, tokens: tokens, log: log}
}

// TokensEnabled reports whether IssueToken and ResolveToken are usable.
func (g *AuthGate) TokensEnabled() bool {
	return g.tokens != nil
}

// Register stores a new user with a hashed password.
func (g *AuthGate) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	digest, err := g.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: digest,
		Role:         in.Role,
	}
	if in.Email != "" {
		user.Email = &in.Email
	}

	err = g.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.FindByUniqueField(ctx, "username", user.Username)
		if err != nil {
			return storeError(err)
		}
		if taken != nil {
			return types.ErrDuplicateUsername
		}
		if user.Email != nil {
			taken, err = tx.Users.FindByUniqueField(ctx, "email", *user.Email)
			if err != nil {
				return storeError(err)
			}
			if taken != nil {
				return types.Conflict("Email already exists!")
			}
		}
		return storeError(tx.Users.Save(ctx, user))
	})
	if err != nil {
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"username": user.Username,
		"role":     user.Role,
	}).Info("user registered")
	return user, nil
}

// Login verifies the credentials and returns the principal.
func (g *AuthGate) Login(ctx context.Context, username, password string) (*auth.Principal, error) {
	user, err := g.store.Users.FindByUniqueField(ctx, "username", username)
	if err != nil {
		return nil, storeError(err)
	}
	ok := user != nil && g.hasher.Verify(password, user.PasswordHash)
	metrics.RecordAuthAttempt("password", ok)
	if !ok {
		g.log.WithField("username", username).Debug("login failed")
		return nil, types.ErrInvalidCredentials
	}
	return auth.PrincipalOf(user), nil
}

// Authorize checks principal against req.
func (g *AuthGate) Authorize(principal *auth.Principal, req Requirement) error {
	if principal == nil {
		return types.ErrInvalidCredentials
	}
	if req.Role != "" && principal.Role != req.Role {
		return types.Forbidden("role %s required", req.Role)
	}
	return nil
}

// IssueToken signs a bearer token for principal.
func (g *AuthGate) IssueToken(principal *auth.Principal) (*Token, error) {
	if g.tokens == nil {
		return nil, ErrTokensDisabled
	}
	signed, expiresAt, err := g.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// ResolveToken verifies a bearer token and reloads its user, so the
// principal carries the current role.
func (g *AuthGate) ResolveToken(ctx context.Context, token string) (*auth.Principal, error) {
	if g.tokens == nil {
		metrics.RecordAuthAttempt("token", false)
		return nil, types.ErrInvalidCredentials
	}
	userID, _, err := g.tokens.Verify(token)
	if err != nil {
		metrics.RecordAuthAttempt("token", false)
		g.log.WithError(err).Debug("token rejected")
		return nil, types.ErrInvalidCredentials
	}
	user, err := g.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		metrics.RecordAuthAttempt("token", false)
		return nil, types.ErrInvalidCredentials
	}
	metrics.RecordAuthAttempt("token", true)
	return auth.PrincipalOf(user), nil
}

// FindByUsername returns the user with username.
func (g *AuthGate) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := g.store.Users.FindByUniqueField(ctx, "username", username)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, types.NotFound("User", username)
	}
	return user, nil
}

// FindByEmail returns the user with email.
func (g *AuthGate) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := g.store.Users.FindByUniqueField(ctx, "email", normalizeEmail(email))
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, types.NotFound("User", email)
	}
	return user, nil
}

// EnsureAdmin registers an ADMIN user when username is not taken. An
// existing user is left untouched.
func (g *AuthGate) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := g.Register(ctx, RegisterInput{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, types.ErrDuplicateUsername) {
		g.log.WithField("username", username).Debug("bootstrap admin already present")
		return nil
	}
	if err != nil {
		return err
	}
	g.log.WithField("username", username).Warn("bootstrap admin created")
	return nil
}
