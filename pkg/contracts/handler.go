package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service handler that exposes HTTP routes.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
