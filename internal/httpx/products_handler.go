package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/catalog"
	"github.com/habuli/go-shop-backend.git/internal/media"
)

const maxProductImages = 4

type ProductsHandler struct {
	Repo          *catalog.Repo
	Uploader      media.Uploader
	ResultPerPage int
}

func (h *ProductsHandler) Register(r chi.Router, a *Authenticator) {
	r.Get("/products", handle(h.list))
	r.Get("/product/{id}", handle(h.get))
	r.With(a.Authenticate, RequireAdmin).Post("/product/new", handle(h.create))
	r.With(a.Authenticate, RequireAdmin).Put("/product/{id}", handle(h.update))
	r.With(a.Authenticate, RequireAdmin).Delete("/product/{id}", handle(h.delete))

	r.Get("/product/reviews/{id}", handle(h.listReviews))
	r.With(a.Authenticate).Post("/product/reviews/{id}", handle(h.addReview))
	r.With(a.Authenticate).Delete("/product/reviews/{id}", handle(h.deleteReview))
}

// list serves the catalog through the composed query:
// search -> filter -> paginate.
func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) error {
	q, err := catalog.BuildProductQuery(r.URL.Query(), h.ResultPerPage)
	if err != nil {
		return err
	}
	total, err := h.Repo.Count(r.Context())
	if err != nil {
		return err
	}
	products, err := h.Repo.List(r.Context(), q)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"productCount": len(products),
		"totalCount":   total,
		"products":     products,
	})
	return nil
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) error {
	p, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": p,
	})
	return nil
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return apperr.New(apperr.Validation, "invalid multipart form")
	}
	name := r.FormValue("name")
	description := r.FormValue("description")
	category := r.FormValue("category")
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, stockErr := strconv.Atoi(r.FormValue("stock"))
	if name == "" || description == "" || category == "" || priceErr != nil || stockErr != nil {
		return apperr.New(apperr.Validation, "Please fill all required fields")
	}
	if price < 0 || stock < 0 {
		return apperr.New(apperr.Validation, "price and stock must be >= 0")
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		return apperr.New(apperr.Validation, "Please add product images")
	}
	if len(files) > maxProductImages {
		files = files[:maxProductImages]
	}
	var images []catalog.Image
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		asset, err := h.Uploader.Upload(r.Context(), f, "products")
		_ = f.Close()
		if err != nil {
			return err
		}
		images = append(images, catalog.Image{PublicID: asset.PublicID, URL: asset.URL})
	}

	p, err := h.Repo.Create(r.Context(), catalog.NewProduct{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Stock:       stock,
		Images:      images,
		CreatedBy:   CurrentUser(r).ID,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product created successfully",
		"product": p,
	})
	return nil
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) error {
	var patch catalog.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return apperr.New(apperr.Validation, "price must be >= 0")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return apperr.New(apperr.Validation, "stock must be >= 0")
	}
	p, err := h.Repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated successfully",
		"product": p,
	})
	return nil
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted successfully",
	})
	return nil
}

func (h *ProductsHandler) listReviews(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if _, err := h.Repo.Get(r.Context(), id); err != nil {
		return err
	}
	reviews, err := h.Repo.Reviews(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reviews": reviews,
	})
	return nil
}

func (h *ProductsHandler) addReview(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid json")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return apperr.New(apperr.Validation, "Please rate our product between 1 to 5 star")
	}
	if req.Comment == "" {
		return apperr.New(apperr.Validation, "Review comment is required")
	}
	u := CurrentUser(r)
	err := h.Repo.UpsertReview(r.Context(), chi.URLParam(r, "id"), catalog.Review{
		UserID:   u.ID,
		UserName: u.Name,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Review added/updated successfully",
	})
	return nil
}

func (h *ProductsHandler) deleteReview(w http.ResponseWriter, r *http.Request) error {
	err := h.Repo.DeleteReview(r.Context(), chi.URLParam(r, "id"), CurrentUser(r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Review deleted successfully",
	})
	return nil
}
