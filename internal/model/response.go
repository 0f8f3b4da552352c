package model

import "time"

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// ResponseDirective is what a use-case hands back to the transport: status,
// payload and the cookie operations to apply.
type ResponseDirective struct {
	Status  int
	Message string
	Data    any
	Cookies []CookieOp
}

// CookieOp sets or clears one cookie. Auth cookies are always HttpOnly,
// Secure and SameSite=Strict.
type CookieOp struct {
	Name     string
	Value    string
	MaxAge   time.Duration
	Clear    bool
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// SessionCookies returns the directives that install a token pair.
func SessionCookies(pair TokenPair, accessTTL, refreshTTL time.Duration) []CookieOp {
	return []CookieOp{
		authCookie(AccessTokenCookie, pair.AccessToken, accessTTL),
		authCookie(RefreshTokenCookie, pair.RefreshToken, refreshTTL),
	}
}

// ClearSessionCookies returns the directives that remove both auth cookies.
func ClearSessionCookies() []CookieOp {
	access := authCookie(AccessTokenCookie, "", 0)
	access.Clear = true
	refresh := authCookie(RefreshTokenCookie, "", 0)
	refresh.Clear = true
	return []CookieOp{access, refresh}
}

func authCookie(name, value string, maxAge time.Duration) CookieOp {
	return CookieOp{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	}
}
