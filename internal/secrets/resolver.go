// Package secrets reads credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"
)

// ErrEmptySecret is returned when a secret exists but holds no string value
var ErrEmptySecret = errors.New("secret has no string value")

// SecretsManagerAPI is the subset of the Secrets Manager client in use
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver fetches secret strings by id
type Resolver struct {
	api SecretsManagerAPI
	log zerolog.Logger
}

// NewResolver creates a resolver over a Secrets Manager client
func NewResolver(api SecretsManagerAPI, log zerolog.Logger) *Resolver {
	return &Resolver{
		api: api,
		log: log.With().Str("component", "secrets").Logger(),
	}
}

// NewResolverFromConfig creates a resolver using the shared AWS config
func NewResolverFromConfig(cfg aws.Config, log zerolog.Logger) *Resolver {
	return NewResolver(secretsmanager.NewFromConfig(cfg), log)
}

// Resolve returns the SecretString of secretID with surrounding whitespace removed
func (r *Resolver) Resolve(ctx context.Context, secretID string) (string, error) {
	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", secretID, err)
	}

	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if value == "" {
		return "", fmt.Errorf("secret %s: %w", secretID, ErrEmptySecret)
	}

	r.log.Debug().Str("secret_id", secretID).Msg("Secret resolved")
	return value, nil
}

// ResolveOr returns the secret when secretID is set and fallback otherwise
func (r *Resolver) ResolveOr(ctx context.Context, secretID, fallback string) (string, error) {
	if secretID == "" {
		return fallback, nil
	}
	return r.Resolve(ctx, secretID)
}
