package dto

import (
	"time"

	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

// MsgEmptyList is shown in place of a list when the community has no quotes.
const MsgEmptyList = "No quotes exist in this server."

// CreateQuoteRequest is the create form submission. Name and text limits are
// checked by the domain so its messages reach the user unchanged.
type CreateQuoteRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// QuoteResponse is a stored quote.
type QuoteResponse struct {
	Community string     `json:"community"`
	Name      string     `json:"name"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// NewQuoteResponse converts a domain quote. A zero CreatedAt is omitted.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		Community: q.Community,
		Name:      q.Name,
		Text:      q.Text,
	}

	if !q.CreatedAt.IsZero() {
		created := q.CreatedAt.UTC()
		resp.CreatedAt = &created
	}

	return resp
}

// DeleteResponse confirms a removed quote.
type DeleteResponse struct {
	Deleted string `json:"deleted"`
	Message string `json:"message"`
}

// ListQuery selects a zero-based list page. Out of range pages are clamped.
type ListQuery struct {
	Page int `form:"page"`
}

// NavigateRequest is a list control event. Label is the page label of the
// list being navigated; Value is the selected page for the select action.
type NavigateRequest struct {
	Label  string `json:"label"  validate:"required"`
	Action string `json:"action" validate:"required,oneof=prev next select"`
	Value  string `json:"value"  validate:"required_if=Action select,omitempty,number"`
}

// ListResponse is a rendered list page.
type ListResponse struct {
	*app.RenderModel
	Message string `json:"message,omitempty"`
}

// NewListResponse wraps a render model, adding the empty list message.
func NewListResponse(m *app.RenderModel) *ListResponse {
	resp := &ListResponse{RenderModel: m}
	if m.Empty {
		resp.Message = MsgEmptyList
	}

	return resp
}

// MessageRequest is a chat message that may name a quote.
type MessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ImportRequest is a bulk import batch of at most 1000 quotes.
type ImportRequest struct {
	Quotes []app.ImportItem `json:"quotes" validate:"required,min=1,max=1000"`
}

// ImportResponse carries per-item import results in request order.
type ImportResponse struct {
	Results []app.ImportResult `json:"results"`
	Created int                `json:"created"`
}

// NewImportResponse summarises import results.
func NewImportResponse(results []app.ImportResult) *ImportResponse {
	resp := &ImportResponse{Results: results}

	for _, r := range results {
		if r.Status == app.ImportCreated {
			resp.Created++
		}
	}

	return resp
}
