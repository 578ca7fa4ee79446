package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scans", app.ScanImageHandler)

		r.Route("/reviews/{sessionID}", func(r chi.Router) {
			r.Get("/", app.ReviewStateHandler)
			r.Post("/next", app.ReviewNextHandler)
			r.Post("/previous", app.ReviewPreviousHandler)
			r.Post("/skip", app.ReviewSkipHandler)
			r.Post("/commit", app.ReviewCommitHandler)
			r.Post("/close", app.ReviewCloseHandler)
		})

		r.Get("/rooms", app.ListRoomsHandler)
		r.Post("/rooms", app.CreateRoomHandler)
		r.Get("/rooms/{roomID}/items", app.RoomItemsHandler)

		r.Post("/captures", app.StartCaptureHandler)
		r.Get("/captures/{captureID}/feed", app.CaptureFeedHandler)
		r.Post("/captures/{captureID}/finish", app.FinishCaptureHandler)
		r.Delete("/captures/{captureID}", app.AbortCaptureHandler)
	})

	r.Get("/blobs/*", app.BlobHandler)

	return r
}
