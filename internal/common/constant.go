package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries the correlation id assigned to each request.
const RequestIDHeaderName = "x-request-id"

// DefaultRecentSessions is the number of sessions included in a report when
// the caller does not ask for a specific amount.
const DefaultRecentSessions = 5
