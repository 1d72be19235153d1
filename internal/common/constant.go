// Package common contains shared constants and sentinel errors used across
// projecthub components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on internal calls.
const AccessTokenHeaderName = "access_token"

// BearerScheme prefixes the token in the HTTP Authorization header.
const BearerScheme = "Bearer"
