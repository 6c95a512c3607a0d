package database

import (
	"fmt"
	"net/url"
	"strings"
)

// ConstructDatabaseURL builds the store URL from its parts:
// the database name is appended to the path, the password is
// injected into the user info, and sslmode=disable is added when
// no sslmode is given.
func ConstructDatabaseURL(baseURL, databaseName, password string) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("database URL is empty")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}

	if databaseName != "" {
		u.Path = "/" + databaseName
	}

	if password != "" {
		username := ""
		if u.User != nil {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, password)
	}

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
