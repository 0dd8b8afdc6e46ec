package httpx

import "net/http"

// VisitorHome renders the signed-in visitor's landing view.
func (h *UIHandlers) VisitorHome(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "Home", PageTitle: "Welcome back", CurrentPage: PageVisitorHome}})
}
