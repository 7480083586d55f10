package srvsentry

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gin-gonic/gin"
)

const deliveryTimeout = 2 * time.Second

type abortedKey struct{}

// Wrap returns next wrapped in a middleware reporting panics to the reporter's client.
// Panics are answered with 500 Internal Server Error once reported.
// http.ErrAbortHandler is re-raised without being reported.
func (r *Reporter) Wrap(next http.Handler) http.Handler {
	if next == nil {
		next = http.DefaultServeMux
	}

	reporting := sentryhttp.New(sentryhttp.Options{
		Repanic: true,
		Timeout: deliveryTimeout,
	}).Handle(skipAborts(next))

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		aborted := false
		req = req.WithContext(context.WithValue(req.Context(), abortedKey{}, &aborted))

		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel is compared directly by net/http
					panic(rvr)
				}
				if req.Header.Get("Connection") != "Upgrade" {
					w.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		reporting.ServeHTTP(w, r.withRequestHub(req))
		if aborted {
			panic(http.ErrAbortHandler)
		}
	})
}

// skipAborts stops an http.ErrAbortHandler panic below the reporting
// handler and flags it on the request, so Wrap can re-raise it unreported.
func skipAborts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				aborted, ok := req.Context().Value(abortedKey{}).(*bool)
				if rvr == http.ErrAbortHandler && ok { //nolint:errorlint // sentinel is compared directly by net/http
					*aborted = true
					return
				}
				panic(rvr)
			}
		}()

		next.ServeHTTP(w, req)
	})
}

// Gin returns a gin middleware reporting panics to the reporter's client.
// Register it after gin.Recovery so the re-raised panic becomes a 500.
func (r *Reporter) Gin() gin.HandlerFunc {
	reporting := sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: deliveryTimeout,
	})

	return func(c *gin.Context) {
		c.Request = r.withRequestHub(c.Request)
		reporting(c)
	}
}

// withRequestHub binds a clone of the reporter hub to the request context,
// which the sentry integrations pick up instead of the global hub.
func (r *Reporter) withRequestHub(req *http.Request) *http.Request {
	hub := r.hub.Clone()
	return req.WithContext(sentry.SetHubOnContext(req.Context(), hub))
}
