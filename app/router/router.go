package router

import (
	"net/http"
	"strings"

	"github.com/saatgomi1/secondsense/app/controller"
)

type Controllers struct {
	Session *controller.SessionController
	Export  *controller.ExportController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Upload images and start a session
	mux.HandleFunc("/sessions", controllers.Session.CreateSession)

	// Session actions
	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/sessions/")
		_, action, _ := strings.Cut(path, "/")

		switch action {
		case "":
			// GET /sessions/:id or DELETE /sessions/:id
			if r.Method == http.MethodDelete {
				controllers.Session.DeleteSession(w, r)
				return
			}
			controllers.Session.GetSession(w, r)
		case "inputs":
			controllers.Session.StageInputs(w, r)
		case "fields":
			controllers.Session.AddField(w, r)
		case "confirm":
			controllers.Session.Confirm(w, r)
		case "image":
			controllers.Session.GetImage(w, r)
		case "export":
			controllers.Export.Export(w, r)
		case "confirmation":
			controllers.Export.Confirmation(w, r)
		case "confirmation.pdf":
			controllers.Export.ConfirmationPDF(w, r)
		case "archive":
			controllers.Export.Archive(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}
