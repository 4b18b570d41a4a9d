package auth

import "github.com/labstack/echo/v4"

// GetUser retrieves the session user from context
func GetUser(c echo.Context) (*User, bool) {
	u, ok := c.Get(UserKey).(*User)
	return u, ok && u != nil
}

// IsAuthenticated checks if the current request is authenticated
func IsAuthenticated(c echo.Context) bool {
	isAuth, _ := c.Get(IsAuthenticatedKey).(bool)
	return isAuth
}

// ActorID names who made an admin request, for logs and audit rows.
func ActorID(c echo.Context) string {
	if info := GetAPIKeyInfo(c.Request().Context()); info != nil {
		return "apikey:" + info.ID
	}
	if u, ok := GetUser(c); ok {
		return u.ID
	}
	return ""
}
