package httpx

import (
	"net/http"

	"github.com/Alexander2005-rgb/portfolio/internal/service/contact"
	"github.com/Alexander2005-rgb/portfolio/internal/ws"
)

func (r *Router) handleListContacts(w http.ResponseWriter, req *http.Request) {
	messages, err := r.services.Contacts.List(req.Context())
	if err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (r *Router) handleGetContact(w http.ResponseWriter, req *http.Request) {
	msg, err := r.services.Contacts.Get(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (r *Router) handleCreateContact(w http.ResponseWriter, req *http.Request) {
	var payload contact.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	msg, err := r.services.Contacts.Submit(req.Context(), payload)
	if err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Message received! I will get back to you soon.",
		"contact": msg,
	})
}

func (r *Router) handleUpdateContact(w http.ResponseWriter, req *http.Request) {
	payload := struct {
		Read *bool `json:"read"`
	}{}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	read := payload.Read == nil || *payload.Read
	msg, err := r.services.Contacts.MarkRead(req.Context(), req.PathValue("id"), read)
	if err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Contact updated!", "contact": msg})
}

func (r *Router) handleDeleteContact(w http.ResponseWriter, req *http.Request) {
	msg, err := r.services.Contacts.Delete(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Contact")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Contact deleted.", "contact": msg})
}

// handleContactStream upgrades to a websocket that receives every new contact message.
func (r *Router) handleContactStream(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.hub.Register(ws.TopicContact, client)
	defer r.hub.Unregister(ws.TopicContact, client)
	client.Wait()
}
