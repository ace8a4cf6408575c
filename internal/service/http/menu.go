package httpsvc

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/restaurant/internal/service/catalog"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if category := r.URL.Query().Get("category"); category != "" {
		products, err := h.catalog.ListByCategory(ctx, category)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponses(products))
		return
	}

	products, err := h.catalog.ListAvailable(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// listProducts отдаёт весь каталог, включая снятые с продажи позиции.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), catalog.AddProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceMinor:  req.PriceMinor,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := toProductResponse(product)
	if h.stock != nil {
		available := h.stock.Available(product.ID)
		resp.InStock = &available
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productPatchRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.PriceMinor != nil {
		if product, err = h.catalog.ChangePrice(r.Context(), id, *req.PriceMinor); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if req.Available != nil {
		if product, err = h.catalog.SetAvailability(r.Context(), id, *req.Available); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) restockProduct(w http.ResponseWriter, r *http.Request) {
	if h.stock == nil {
		h.writeError(w, r, errNoStock)
		return
	}
	id := chi.URLParam(r, "id")

	var req restockRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.catalog.GetProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	level, err := h.stock.Restock(id, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "in_stock": level})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
