package app

import (
	"github.com/vancomm/crystal-levels/internal/handlers"
)

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.log, a.store, a.cookies)
	levels := handlers.NewLevelHandler(a.log, a.store, a.gen, a.ws)

	a.router.HandleFunc("POST /v1/register", auth.Register)
	a.router.HandleFunc("POST /v1/login", auth.Login)
	a.router.HandleFunc("POST /v1/logout", auth.Logout)
	a.router.HandleFunc("GET /v1/status", auth.Status)

	a.router.HandleFunc("POST /v1/levels", levels.NewLevel)
	a.router.HandleFunc("POST /v1/levels/batch", levels.Batch)
	a.router.HandleFunc("POST /v1/levels/analyze", levels.Analyze)
	a.router.HandleFunc("GET /v1/levels", levels.List)
	a.router.HandleFunc("GET /v1/levels/stream", levels.Stream)
	a.router.HandleFunc("GET /v1/levels/{id}", levels.Fetch)
}
