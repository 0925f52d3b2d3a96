package routes

import (
	"net/http"

	"afaq/afaq/controllers"
	"afaq/afaq/middlewares"

	"github.com/go-chi/chi/v5"
)

func ChatRoutes(ctrl *controllers.ChatController, sessions *middlewares.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessions.Middleware)

	r.Get("/session", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, err := sessions.Ensure(w, r)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return controllers.SessionResponse(sessionID), http.StatusOK, nil
	}))

	// all messages of the session across chats
	r.Get("/history", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, err := sessions.Ensure(w, r)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		resp, err := ctrl.SessionHistory(r.Context(), sessionID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Get("/history/{chat_id}", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, ok := middlewares.SessionID(r.Context())
		if !ok {
			return nil, http.StatusBadRequest, errNoSession
		}
		resp, err := ctrl.History(r.Context(), sessionID, chi.URLParam(r, "chat_id"))
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Get("/chats", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, _ := middlewares.SessionID(r.Context())
		resp, err := ctrl.ListChats(r.Context(), sessionID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Delete("/chats", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, ok := middlewares.SessionID(r.Context())
		if !ok {
			return nil, http.StatusBadRequest, errNoSessionFound
		}
		resp, err := ctrl.ClearAll(r.Context(), sessionID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Post("/new-chat", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		return ctrl.NewChat(), http.StatusOK, nil
	}))

	r.Post("/message", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		if err := r.ParseForm(); err != nil {
			return nil, http.StatusBadRequest, err
		}
		sessionID, err := sessions.Ensure(w, r)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		resp, err := ctrl.SendMessage(r.Context(), sessionID, r.PostForm.Get("chat_id"), r.PostForm.Get("message"))
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Delete("/chat/{chat_id}", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		sessionID, ok := middlewares.SessionID(r.Context())
		if !ok {
			return nil, http.StatusBadRequest, errNoSession
		}
		resp, err := ctrl.DeleteChat(r.Context(), sessionID, chi.URLParam(r, "chat_id"))
		if err != nil {
			return nil, statusFor(err), err
		}
		if err := sessions.SetCookie(w, sessionID); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return resp, http.StatusOK, nil
	}))

	r.Get("/website-content", handleJSON(func(w http.ResponseWriter, r *http.Request) (any, int, error) {
		return ctrl.WebsiteContent(r.Context()), http.StatusOK, nil
	}))

	return r
}
