package rest

import (
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-widget/internal/pkg"
)

const sessionCookie = "user_session"

// session - returns the caller's session id, issuing a new cookie when the
// request carries none or an unusable one. The cookie is refreshed on every
// request, and every request reads or writes the game, which refreshes its
// storage ttl by the same amount.
func (that *Server) session(w http.ResponseWriter, r *http.Request) string {
	log := that.logger.With("method", "session")

	sessionID := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil && pkg.ValidateSessionID(cookie.Value) == nil {
		sessionID = cookie.Value
	}

	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
		log.Debug("session cookie not found, new one created", "sessionID", sessionID)
	}

	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if that.sessionTTL > 0 {
		cookie.Expires = time.Now().Add(that.sessionTTL)
	}
	http.SetCookie(w, cookie)

	return sessionID
}
