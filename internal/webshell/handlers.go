package webshell

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoelChinoP/voting-system-front/internal/guard"
	"github.com/JoelChinoP/voting-system-front/internal/session"
	"github.com/JoelChinoP/voting-system-front/internal/validators"
)

func page(c *gin.Context, status int, title, body string) {
	c.Data(status, "text/html; charset=utf-8", []byte(fmt.Sprintf(
		"<!doctype html><html><head><title>%s</title></head><body>%s</body></html>",
		html.EscapeString(title), body,
	)))
}

const loginForm = `<h1>Sign in</h1>%s
<form method="post" action="/login">
  <input name="email" type="email" placeholder="Email">
  <input name="password" type="password" placeholder="Password">
  <button type="submit">Sign in</button>
</form>`

func (s *Server) loginPage(c *gin.Context) {
	page(c, http.StatusOK, "Sign in", fmt.Sprintf(loginForm, ""))
}

func (s *Server) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := s.svc.Login(c.Request.Context(), email, password)
	if err != nil {
		var verr *validators.ValidationError
		if errors.As(err, &verr) {
			// Inline validation message, input never left the process.
			msg := "<p>" + html.EscapeString(verr.Message) + "</p>"
			page(c, http.StatusBadRequest, "Sign in", fmt.Sprintf(loginForm, msg))
			return
		}
		page(c, http.StatusUnauthorized, "Sign in",
			fmt.Sprintf(loginForm, "<p>Authentication failed. Please try again.</p>"))
		return
	}

	s.provider.Focus()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.provider.Logout()
	c.Redirect(http.StatusSeeOther, guard.DefaultLoginPath)
}

func (s *Server) home(c *gin.Context) {
	snap := s.provider.Snapshot()
	if snap.User == nil {
		// The credential can vanish between the guard and here;
		// overlapping auth operations are last-write-wins.
		c.Redirect(http.StatusSeeOther, guard.DefaultLoginPath)
		return
	}
	body := fmt.Sprintf("<h1>Voting</h1><p>Signed in as %s</p>", html.EscapeString(snap.User.Email))
	// Conditional rendering, not navigation: the link only exists for
	// members of the admin role.
	if guard.RequireRole(snap.User, session.RoleAdmin) {
		body += `<p><a href="/admin">Administration</a></p>`
	}
	body += `<form method="post" action="/logout"><button type="submit">Sign out</button></form>`
	page(c, http.StatusOK, "Voting", body)
}

func (s *Server) admin(c *gin.Context) {
	snap := s.provider.Snapshot()
	if snap.User == nil {
		c.Redirect(http.StatusSeeOther, guard.DefaultLoginPath)
		return
	}
	page(c, http.StatusOK, "Administration",
		fmt.Sprintf("<h1>Administration</h1><p>Welcome, %s</p>", html.EscapeString(snap.User.Email)))
}

func (s *Server) forbidden(c *gin.Context) {
	page(c, http.StatusForbidden, "Forbidden",
		"<h1>403</h1><p>You do not have access to this page.</p>")
}

func (s *Server) notFound(c *gin.Context) {
	page(c, http.StatusNotFound, "Not found",
		"<h1>404</h1><p>This page does not exist.</p>")
}
