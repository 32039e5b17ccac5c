package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only authorization scheme the API accepts.
	BearerScheme = "Bearer"
)
