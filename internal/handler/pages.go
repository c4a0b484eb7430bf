package handler

import (
	"net/http"

	"github.com/greenverse/greenverse-go/internal/model"
)

type pageResponse struct {
	Page string      `json:"page"`
	User *model.User `json:"user"`
}

// Page returns a handler describing the named page and the signed-in user,
// if any. Access control is left to the route guard.
func Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := pageResponse{Page: name}
		if user, ok := currentUser(r); ok {
			resp.User = &user
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
