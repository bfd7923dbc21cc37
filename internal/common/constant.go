// Package common contains shared constants and sentinel errors used across
// nutriledger components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is echoed back in response headers so client logs can
// be correlated with server logs.
const RequestIDHeaderName = "x-request-id"
