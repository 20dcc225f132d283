package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/usecase"
	"go.uber.org/zap"
)

const version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products     *usecase.ProductService
	translations *usecase.TranslationService
	documents    *usecase.DocumentService
	logger       *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *usecase.ProductService,
	translations *usecase.TranslationService,
	documents *usecase.DocumentService,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		products:     products,
		translations: translations,
		documents:    documents,
		logger:       logger,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "labelpress",
		"version":     version,
		"translation": h.translations.Configured(),
	})
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var p domain.ProductRecord
	if err := c.ShouldBindJSON(&p); err != nil {
		h.badRequest(c, err)
		return
	}
	p.ID = ""

	saved, err := h.products.Save(c.Request.Context(), &p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateProduct handles PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var p domain.ProductRecord
	if err := c.ShouldBindJSON(&p); err != nil {
		h.badRequest(c, err)
		return
	}
	p.ID = c.Param("id")

	saved, err := h.products.Save(c.Request.Context(), &p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProducts handles GET /products?week=&channel=&vegan=
func (h *Handler) ListProducts(c *gin.Context) {
	q, err := recordQuery(c, c.Query("channel"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	records, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if records == nil {
		records = []domain.ProductRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"products": records, "count": len(records)})
}

// SuggestProducts handles GET /products/suggestions?q=
func (h *Handler) SuggestProducts(c *gin.Context) {
	products, err := h.products.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": products})
}

// Translate handles POST /translations. Nothing is persisted.
func (h *Handler) Translate(c *gin.Context) {
	var text domain.TranslatedText
	if err := c.ShouldBindJSON(&text); err != nil {
		h.badRequest(c, err)
		return
	}
	translated, err := h.translations.Translate(c.Request.Context(), text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, translated)
}

// TranslateProduct handles POST /products/:id/translation
func (h *Handler) TranslateProduct(c *gin.Context) {
	p, err := h.products.Translate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ProductLabel handles GET /products/:id/label?font_size=
func (h *Handler) ProductLabel(c *gin.Context) {
	size, err := fontSizeParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	doc, err := h.documents.Label(c.Request.Context(), c.Param("id"), size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writePDF(c, doc)
}

// Menu handles GET /menus/:channel?week=&vegan=&font_size=
func (h *Handler) Menu(c *gin.Context) {
	q, err := recordQuery(c, c.Param("channel"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	size, err := fontSizeParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	doc, err := h.documents.Menu(c.Request.Context(), usecase.MenuRequest{
		Week:      q.Week,
		Channel:   q.Channel,
		VeganOnly: q.VeganOnly,
		FontSize:  size,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	writePDF(c, doc)
}

func writePDF(c *gin.Context, doc *usecase.Rendered) {
	c.Header("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	c.Header("X-Page-Count", strconv.Itoa(doc.Pages))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

func recordQuery(c *gin.Context, channel string) (domain.RecordQuery, error) {
	ch, err := domain.ParseChannel(channel)
	if err != nil {
		return domain.RecordQuery{}, err
	}
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		return domain.RecordQuery{}, fmt.Errorf("%w: week must be a number", domain.ErrInvalidRequest)
	}
	vegan := false
	if raw := c.Query("vegan"); raw != "" {
		if vegan, err = strconv.ParseBool(raw); err != nil {
			return domain.RecordQuery{}, fmt.Errorf("%w: vegan must be true or false", domain.ErrInvalidRequest)
		}
	}
	return domain.RecordQuery{Week: week, Channel: ch, VeganOnly: vegan}, nil
}

// fontSizeParam returns the requested size; empty means the stored or default size
func fontSizeParam(c *gin.Context) (domain.FontSize, error) {
	raw := c.Query("font_size")
	if raw == "" {
		return "", nil
	}
	return domain.ParseFontSize(raw)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}

// writeError maps domain errors to status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrTranslationFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "translation failed, please try again", Retryable: true})
	case errors.Is(err, domain.ErrTranslationNotConfigured),
		errors.Is(err, domain.ErrFontsNotReady),
		errors.Is(err, domain.ErrFontLoad):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Retryable: errors.Is(err, domain.ErrFontsNotReady)})
	default:
		h.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
