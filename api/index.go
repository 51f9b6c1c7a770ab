// Package handler is the serverless entrypoint. The dependency graph is built
// on the first invocation and reused by warm instances.
package handler

import (
	"net/http"
	"sync"

	"hotelbook/config"
	"hotelbook/di"
	"hotelbook/shared/logger"
)

var service = sync.OnceValue(func() http.Handler {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	service().ServeHTTP(w, r)
}
