package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity fields decoded from a bearer token.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Empty reports whether no claim was decoded.
func (c Claims) Empty() bool {
	return c.Subject == "" && c.Email == "" && len(c.Roles) == 0 && c.ExpiresAt.IsZero() && c.IssuedAt.IsZero()
}

var parser = jwt.NewParser()

// DecodeClaims reads the claims of token without verifying its signature;
// the client has no key to verify with. It never panics or returns an error:
// a malformed token yields empty Claims and ok=false.
func DecodeClaims(token string) (claims Claims, ok bool) {
	defer func() {
		if recover() != nil {
			claims, ok = Claims{}, false
		}
	}()

	if token == "" {
		return Claims{}, false
	}

	mc := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, false
	}
	iat, err := mc.GetIssuedAt()
	if err != nil {
		return Claims{}, false
	}
	sub, err := mc.GetSubject()
	if err != nil {
		return Claims{}, false
	}

	c := Claims{Subject: sub, Roles: rolesOf(mc)}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, true
}

// rolesOf accepts "roles" or "authorities" as a string or a list of strings.
func rolesOf(mc jwt.MapClaims) []string {
	for _, name := range []string{"roles", "authorities", "role"} {
		switch v := mc[name].(type) {
		case string:
			if v != "" {
				return []string{v}
			}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// valid reports whether c carries an expiry strictly after now.
func (c Claims) valid(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.After(now)
}
