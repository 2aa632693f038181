// Package site serves the embedded volunteer lookup page.
package site

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register serves the lookup page at / and its assets below it. It must be
// registered after the API routes since it matches every remaining GET path.
func Register(r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.PathPrefix("/").Handler(http.FileServer(FS())).Methods(http.MethodGet)
}
