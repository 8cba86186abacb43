// Package api is the HTTP adapter over the chat service: a thin layer doing
// request validation and error mapping, nothing more.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"chatterbox/pkg/api/handlers"
	"chatterbox/pkg/chat"
	"chatterbox/pkg/history"
)

// Options carries the collaborators handlers need.
type Options struct {
	Service   *chat.Service
	Store     *history.Store
	MaxMsgLen int
}

// Handler builds the versioned router.
func Handler(opts Options) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterChat(v1, handlers.Deps{
		Service:   opts.Service,
		Store:     opts.Store,
		MaxMsgLen: opts.MaxMsgLen,
	})
	return r
}
