package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"github.com/debeshghorui/Roomsy/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes caps listing image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// ListingHandler exposes listing operations over HTTP. Listing mutations
// arrive as multipart form data so an image file can ride along.
type ListingHandler struct {
	listings *usecase.ListingUsecase
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, m *metrics.Manager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, metrics: m, logger: log.Named("ListingHandler")}
}

func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.List(r.Context())
	if err != nil {
		respondError(w, h.logger, h.metrics, "list_listings", err)
		return
	}

	dtos := make([]listingDTO, 0, len(listings))
	for _, listing := range listings {
		dtos = append(dtos, toListingDTO(listing))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.listings.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, h.metrics, "get_listing", err)
		return
	}
	respondJSON(w, http.StatusOK, toListingDetailDTO(detail))
}

func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, upload, err := h.parseListingForm(r)
	if err != nil {
		respondError(w, h.logger, h.metrics, "create_listing", err)
		return
	}

	price, err := parsePrice(form.value("price"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "create_listing", err)
		return
	}

	input := usecase.CreateListingInput{
		Title:       form.value("title"),
		Description: form.value("description"),
		Location:    form.value("location"),
		Country:     form.value("country"),
		Price:       price,
	}

	listing, err := h.listings.Create(r.Context(), principalFrom(r.Context()), input, upload)
	if err != nil {
		respondError(w, h.logger, h.metrics, "create_listing", err)
		return
	}

	h.metrics.ListingsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, toListingDTO(listing))
}

func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, upload, err := h.parseListingForm(r)
	if err != nil {
		respondError(w, h.logger, h.metrics, "update_listing", err)
		return
	}

	var input usecase.UpdateListingInput
	input.Title = form.optional("title")
	input.Description = form.optional("description")
	input.Location = form.optional("location")
	input.Country = form.optional("country")
	if raw := form.optional("price"); raw != nil {
		price, err := parsePrice(*raw)
		if err != nil {
			respondError(w, h.logger, h.metrics, "update_listing", err)
			return
		}
		input.Price = &price
	}

	listing, err := h.listings.Update(r.Context(), principalFrom(r.Context()), id, input, upload)
	if err != nil {
		respondError(w, h.logger, h.metrics, "update_listing", err)
		return
	}

	h.metrics.ListingUpdatesTotal.Inc()
	respondJSON(w, http.StatusOK, toListingDTO(listing))
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.listings.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		respondError(w, h.logger, h.metrics, "delete_listing", err)
		return
	}

	h.metrics.ListingDeletesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// listingForm distinguishes absent fields from empty ones so partial
// updates leave omitted fields untouched.
type listingForm struct {
	values map[string][]string
}

func (f *listingForm) value(key string) string {
	if vals, ok := f.values[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (f *listingForm) optional(key string) *string {
	if vals, ok := f.values[key]; ok && len(vals) > 0 {
		v := vals[0]
		return &v
	}
	return nil
}

func (h *ListingHandler) parseListingForm(r *http.Request) (*listingForm, *domain.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, domain.NewValidationError("body", "expected multipart form data")
	}

	form := &listingForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return form, nil, nil
	}
	if err != nil {
		return nil, nil, domain.NewValidationError("image", "could not read uploaded image")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded image", zap.Error(err))
		return nil, nil, domain.NewValidationError("image", "could not read uploaded image")
	}

	return form, &domain.UploadedFile{Filename: header.Filename, Data: data}, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError("price", "price must be a number")
	}
	return price, nil
}
