package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/mcoot/superbowl-squares/internal/model"
)

type contextKey string

const (
	contestantContextKey contextKey = "contestant"

	contestantCookiePrefix = "squares-name-"
	contestantCookieMaxAge = 90 * 24 * 60 * 60
)

// ContestantCookieName returns the cookie holding the viewer's name for a board
func ContestantCookieName(id model.BoardID) string {
	return contestantCookiePrefix + string(id)
}

// GetContestant retrieves the viewer's name for the current board
// Returns empty string if the viewer has not entered a name
func GetContestant(ctx context.Context) string {
	name, _ := ctx.Value(contestantContextKey).(string)
	return name
}

// SetContestant remembers the viewer's name for a board
func SetContestant(w http.ResponseWriter, id model.BoardID, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ContestantCookieName(id),
		Value:    url.QueryEscape(name),
		Path:     "/",
		MaxAge:   contestantCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearContestant forgets the viewer's name for a board
func ClearContestant(w http.ResponseWriter, id model.BoardID) {
	http.SetCookie(w, &http.Cookie{
		Name:     ContestantCookieName(id),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// NormalizeContestant trims a submitted name and reports whether it is usable
func NormalizeContestant(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > model.MaxContestantLength {
		return "", false
	}
	return name, true
}

// Contestant returns middleware that loads the viewer's name for the board in
// the {id} route variable
func Contestant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.NormalizeBoardID(mux.Vars(r)["id"])
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(ContestantCookieName(id))
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			name, err := url.QueryUnescape(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			name, ok := NormalizeContestant(name)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contestantContextKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
