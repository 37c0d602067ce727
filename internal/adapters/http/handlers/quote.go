package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

// CommunityParam is the path parameter that scopes every quote route.
const CommunityParam = "community"

// QuoteHandler serves the quote commands and list interactions of one community.
type QuoteHandler struct {
	service   *app.QuoteService
	navigator *app.Navigator
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService, navigator *app.Navigator) *QuoteHandler {
	return &QuoteHandler{
		service:   service,
		navigator: navigator,
	}
}

// CreateQuote handles POST /api/v1/communities/:community/quotes.
//
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param community path string true "Community ID"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/communities/{community}/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if !bind(c, &req) {
		return
	}

	quote, err := h.service.Create(c.Request.Context(), c.Param(CommunityParam), req.Name, req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// GetQuote handles GET /api/v1/communities/:community/quotes/:name.
//
// @Summary Get a quote by name
// @Tags quotes
// @Produce json
// @Param community path string true "Community ID"
// @Param name path string true "Quote name"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/communities/{community}/quotes/{name} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	quote, err := h.service.Get(c.Request.Context(), c.Param(CommunityParam), name)
	if domain.IsNotFound(err) {
		respondNotFound(c, fmt.Sprintf("Could not get quote with name `%s`. It does not exist.", name))
		return
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// DeleteQuote handles DELETE /api/v1/communities/:community/quotes/:name.
//
// @Summary Delete a quote by name
// @Tags quotes
// @Produce json
// @Param community path string true "Community ID"
// @Param name path string true "Quote name"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/communities/{community}/quotes/{name} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	deleted, err := h.service.Delete(c.Request.Context(), c.Param(CommunityParam), name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if !deleted {
		respondNotFound(c, fmt.Sprintf("Could not delete quote with name `%s`. It does not exist.", name))
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{
		Deleted: name,
		Message: fmt.Sprintf("Deleted quote with name `%s`.", name),
	})
}

// ListQuotes handles GET /api/v1/communities/:community/quotes?page=N.
//
// @Summary Render a page of quote names
// @Tags list
// @Produce json
// @Param community path string true "Community ID"
// @Param page query int false "Zero-based page"
// @Success 200 {object} dto.ListResponse
// @Router /api/v1/communities/{community}/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query dto.ListQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		respondBindError(c, err)
		return
	}

	model, err := h.navigator.Render(c.Request.Context(), c.Param(CommunityParam), query.Page)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(model))
}

// NavigateList handles POST /api/v1/communities/:community/list/navigate.
//
// @Summary Apply a list control event
// @Tags list
// @Accept json
// @Produce json
// @Param community path string true "Community ID"
// @Success 200 {object} dto.ListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/communities/{community}/list/navigate [post]
func (h *QuoteHandler) NavigateList(c *gin.Context) {
	var req dto.NavigateRequest
	if !bind(c, &req) {
		return
	}

	action, err := app.ParseNavAction(req.Action)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	value := 0
	if action == app.NavSelect {
		value, err = selectedPage(req.Value)
		if err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	model, err := h.navigator.Navigate(c.Request.Context(), c.Param(CommunityParam), req.Label, action, value)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(model))
}

// HandleMessage handles POST /api/v1/communities/:community/messages. A
// message naming a quote gets the quote back; anything else gets 204.
//
// @Summary Answer a bare chat message
// @Tags quotes
// @Accept json
// @Produce json
// @Param community path string true "Community ID"
// @Success 200 {object} dto.QuoteResponse
// @Success 204
// @Router /api/v1/communities/{community}/messages [post]
func (h *QuoteHandler) HandleMessage(c *gin.Context) {
	var req dto.MessageRequest
	if !bind(c, &req) {
		return
	}

	quote, err := h.service.LookupBare(c.Request.Context(), c.Param(CommunityParam), req.Content)
	if err != nil {
		// The message surface stays silent on failure; the error is only logged.
		logging.FromContext(c.Request.Context()).Error("bare quote lookup failed", "error", err.Error())
		c.Status(http.StatusNoContent)

		return
	}

	if quote == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ImportQuotes handles POST /api/v1/communities/:community/quotes/import.
//
// @Summary Import quotes in bulk
// @Tags quotes
// @Accept json
// @Produce json
// @Param community path string true "Community ID"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/communities/{community}/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	var req dto.ImportRequest
	if !bind(c, &req) {
		return
	}

	results, err := h.service.Import(c.Request.Context(), c.Param(CommunityParam), req.Quotes)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewImportResponse(results))
}

// RegisterQuoteRoutes registers the quote routes on a group already scoped to
// /communities/:community.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.POST("", h.CreateQuote)
	quotes.GET("", h.ListQuotes)
	quotes.POST("/import", h.ImportQuotes)
	quotes.GET("/:name", h.GetQuote)
	quotes.DELETE("/:name", h.DeleteQuote)

	rg.POST("/list/navigate", h.NavigateList)
	rg.POST("/messages", h.HandleMessage)
}

// selectedPage parses the page chosen in a select event. The request validator
// only admits digit runs, so the one parse failure left is a value past
// math.MaxInt. That page is out of range like any other and the navigator
// clamps it to the last page.
func selectedPage(value string) (int, error) {
	page, err := strconv.Atoi(value)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, nil
	}

	if err != nil {
		return 0, domain.NewValidationErrorWithValue("value", "must be a page number", value)
	}

	return page, nil
}

// bind decodes and validates a JSON body, writing the error response itself
// when that fails.
func bind(c *gin.Context, v any) bool {
	if err := dto.BindAndValidate(c, v); err != nil {
		respondBindError(c, err)
		return false
	}

	return true
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, message).WithTraceID(dto.GetTraceID(c)))
}

func respondBindError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrValidation) {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		dto.AbortWithErrorCode(c, dto.ErrorCodePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))

		return
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrorCodeBadRequest,
		"request body could not be decoded",
	).WithTraceID(dto.GetTraceID(c)))
}
