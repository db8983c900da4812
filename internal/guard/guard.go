// Package guard turns an auth snapshot into a per-navigation decision:
// let the request through, send it to login, or send it to the
// forbidden page.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoelChinoP/voting-system-front/internal/authstate"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

// Decision is the outcome of evaluating a navigation.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToForbidden:
		return "redirect-to-forbidden"
	default:
		return "unknown"
	}
}

const (
	// DefaultLoginPath is where unauthenticated navigations land.
	DefaultLoginPath = "/login"
	// ForbiddenPath is where authenticated-but-unauthorized ones land.
	ForbiddenPath = "/forbidden"
)

// Rule configures one guarded route. An empty Roles set means any
// authenticated user passes; RedirectTo defaults to DefaultLoginPath.
type Rule struct {
	Roles      []session.Role
	RedirectTo string
}

// Outcome pairs the decision with its redirect target (empty on Allow).
type Outcome struct {
	Decision Decision
	Target   string
}

// Evaluate decides one navigation against one rule. A role outside the
// known set is simply not a member of any required set; it denies, it
// never panics.
func Evaluate(snap authstate.Snapshot, rule Rule) Outcome {
	if !snap.IsAuthenticated {
		target := rule.RedirectTo
		if target == "" {
			target = DefaultLoginPath
		}
		return Outcome{Decision: RedirectToLogin, Target: target}
	}

	if len(rule.Roles) > 0 && !RequireRole(snap.User, rule.Roles...) {
		return Outcome{Decision: RedirectToForbidden, Target: ForbiddenPath}
	}

	return Outcome{Decision: Allow}
}

// RequireRole reports whether the user exists and its role is a member
// of the given set. This is the non-navigational variant used for
// conditional rendering.
func RequireRole(user *session.UserIdentity, roles ...session.Role) bool {
	if user == nil {
		return false
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

// Middleware adapts the guard to gin: Allow falls through to the
// handler, anything else becomes a redirect. The snapshot is read per
// navigation so a credential change takes effect on the next request.
func Middleware(provider *authstate.Provider, rule Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome := Evaluate(provider.Snapshot(), rule)
		if outcome.Decision == Allow {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, outcome.Target)
		c.Abort()
	}
}
