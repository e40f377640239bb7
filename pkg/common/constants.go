package common

const (
	RequestIDHeader    = "X-Request-Id"
	UserIDHeader       = "X-User-Id"
	UsernameHeader     = "X-Username"
	SessionIDHeader    = "X-Session-Id"
	ForwardedForHeader = "X-Forwarded-For"
	RealIPHeader       = "X-Real-Ip"
	CSRFTokenHeader    = "X-Csrf-Token"
)
