package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106

	// Operator must confirm a destructive action
	NotConfirmed ErrorCode = 40002

	// The console is still resolving the operator session
	SessionLoading ErrorCode = 50301

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	// Row does not exist in the current snapshot
	NotFound ErrorCode = 40401

	// The reply endpoint refused or is not configured
	ReplyFailed ErrorCode = 50201

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
