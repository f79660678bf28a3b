package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the session
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCodeLength is the number of decimal digits in a session code.
const SessionCodeLength = 7
