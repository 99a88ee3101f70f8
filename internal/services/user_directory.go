package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/machinebox/graphql"

	"github.com/Aniket19c/FundooNotes/pkg/logger"
)

// DirectoryUser is an account record from the external user service.
type DirectoryUser struct {
	UserID   uuid.UUID
	Username string
	Email    string
}

// UserDirectory resolves user accounts. Accounts live in a separate service;
// this layer only ever looks them up.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*DirectoryUser, error)
}

// GraphQLUserDirectory talks to the user service over GraphQL.
type GraphQLUserDirectory struct {
	client  *graphql.Client
	baseURL string
}

func NewGraphQLUserDirectory(baseURL string) *GraphQLUserDirectory {
	return &GraphQLUserDirectory{
		client:  graphql.NewClient(baseURL),
		baseURL: baseURL,
	}
}

type userByEmailResponse struct {
	UserByEmail struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"userByEmail"`
}

func (d *GraphQLUserDirectory) GetUserByEmail(ctx context.Context, email string) (*DirectoryUser, error) {
	req := graphql.NewRequest(`
        query GetUserByEmail($email: String!) {
            userByEmail(email: $email) {
                userId
                username
                email
            }
        }
    `)
	req.Var("email", email)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var resp userByEmailResponse
	if err := d.client.Run(ctx, req, &resp); err != nil {
		logger.Log.Error().Err(err).Str("url", d.baseURL).Msg("user service request failed")
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if resp.UserByEmail.UserID == "" {
		return nil, ErrNotFound
	}

	userID, err := uuid.Parse(resp.UserByEmail.UserID)
	if err != nil {
		return nil, fmt.Errorf("user service returned invalid user id %q: %w", resp.UserByEmail.UserID, err)
	}

	return &DirectoryUser{
		UserID:   userID,
		Username: resp.UserByEmail.Username,
		Email:    resp.UserByEmail.Email,
	}, nil
}
