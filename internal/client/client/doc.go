// Package client talks to the timeline gateway.
//
// GRPCClient implements Client over gRPC with the gateway's JSON codec. It
// attaches the access token to every call through a unary interceptor and
// refreshes it once when the server reports it expired. gRPC status codes are
// mapped to the sentinel errors in errors.go so callers can use errors.Is.
//
// Media uploads are three legs: PrepareMediaUpload hands out presigned PUT
// URLs, the bytes go straight to object storage, and CompleteMediaUpload
// returns the new media ids.
//
// InitDatabase opens the on-device SQLite database and applies the embedded
// goose migrations.
package client
