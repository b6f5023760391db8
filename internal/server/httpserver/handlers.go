package httpserver

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/go-chi/chi/v5"
)

// pathID parses a numeric path parameter. Anything else is a 404.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "index.html", pageData{})
}

func (s *HTTPServer) catalogPage(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	view, err := s.catalog.Browse(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.renderPage(w, r, http.StatusOK, "catalog.html", pageData{Title: "Catalog", Data: view})
}

func (s *HTTPServer) toggle(w http.ResponseWriter, r *http.Request) {
	paintID, err := pathID(r, "paintID")
	if err != nil {
		s.fail(w, r, err, "Paint not found")
		return
	}

	card, err := s.inventory.Toggle(r.Context(), userFrom(r.Context()).ID, paintID)
	if err != nil {
		s.fail(w, r, err, "Paint not found")
		return
	}
	s.metrics.RecordToggle(card.Owned())

	v := cardView{Context: "catalog", Paint: card.Paint, Owned: card.Owned()}
	if card.Owned() {
		v.Status = card.UserPaint.Status
	}
	s.renderPartial(w, r, "paint_card", v)
}

func (s *HTTPServer) inventoryPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.inventory.List(r.Context(), userFrom(r.Context()).ID, r.URL.Query().Get("status"))
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.renderPage(w, r, http.StatusOK, "inventory.html", pageData{Title: "Inventory", Data: view})
}

func (s *HTTPServer) cycleStatus(w http.ResponseWriter, r *http.Request) {
	paintID, err := pathID(r, "paintID")
	if err != nil {
		s.fail(w, r, err, "Paint not in inventory")
		return
	}

	card, err := s.inventory.CycleStatus(r.Context(), userFrom(r.Context()).ID, paintID)
	if err != nil {
		s.fail(w, r, err, "Paint not in inventory")
		return
	}
	s.metrics.RecordStatusCycle(card.UserPaint.Status)

	s.renderPartial(w, r, "paint_card", cardView{
		Context: "inventory",
		Paint:   card.Paint,
		Owned:   true,
		Status:  card.UserPaint.Status,
	})
}

// removeFromInventory answers an empty fragment so htmx drops the card.
func (s *HTTPServer) removeFromInventory(w http.ResponseWriter, r *http.Request) {
	paintID, err := pathID(r, "paintID")
	if err != nil {
		s.fail(w, r, err, "Paint not found")
		return
	}

	if err := s.inventory.Remove(r.Context(), userFrom(r.Context()).ID, paintID); err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeHTML(w, http.StatusOK, nil)
}
