// Package common contains shared constants, sentinel errors and small helpers
// used by both the timeline client and the gateway server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SelfProfile is the subject used when a client asks for its own timeline.
const SelfProfile = "self"
