package handler

import (
	"net/http"
	"sync"

	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"
)

// server is assembled on the first invocation and reused while the function instance stays warm.
var server = sync.OnceValue(func() http.Handler {
	logger.InitLogger()
	logger.Configure(config.Get())

	return di.InitializeService()
})

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	server().ServeHTTP(w, r)
}
