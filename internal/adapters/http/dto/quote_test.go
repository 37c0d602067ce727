package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

func TestGetTraceID_PrefersActiveSpan(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = c.Request.WithContext(trace.ContextWithSpanContext(c.Request.Context(), sc))
	c.Request.Header.Set("X-Request-ID", "header-id")

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(c))
}

func TestValidateCommunity(t *testing.T) {
	type input struct {
		Community string `validate:"community"`
	}

	tests := []struct {
		name      string
		community string
		wantErr   bool
	}{
		{name: "snowflake", community: "123456789012345678"},
		{name: "letters dashes underscores", community: "my-guild_2"},
		{name: "empty", community: "", wantErr: true},
		{name: "dot", community: "a.b", wantErr: true},
		{name: "dollar", community: "a$b", wantErr: true},
		{name: "slash", community: "a/b", wantErr: true},
		{name: "non ascii", community: "gilde-é", wantErr: true},
		{name: "longest allowed", community: strings.Repeat("a", 100)},
		{name: "too long", community: strings.Repeat("a", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validator().Struct(&input{Community: tt.community})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNavigateRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       NavigateRequest
		wantField string
	}{
		{name: "next", req: NavigateRequest{Label: "Page 1 of 3", Action: "next"}},
		{name: "prev", req: NavigateRequest{Label: "Page 2 of 3", Action: "prev"}},
		{name: "select", req: NavigateRequest{Label: "Page 1 of 3", Action: "select", Value: "2"}},
		{name: "missing label", req: NavigateRequest{Action: "next"}, wantField: "label"},
		{name: "unknown action", req: NavigateRequest{Label: "Page 1 of 3", Action: "jump"}, wantField: "action"},
		{name: "select without value", req: NavigateRequest{Label: "Page 1 of 3", Action: "select"}, wantField: "value"},
		{name: "select with text value", req: NavigateRequest{Label: "Page 1 of 3", Action: "select", Value: "two"}, wantField: "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)

			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, ValidationErrors(err), tt.wantField)
		})
	}
}

func TestImportRequest_Validation(t *testing.T) {
	require.Error(t, Validate(&ImportRequest{}))
	require.NoError(t, Validate(&ImportRequest{Quotes: []app.ImportItem{{Name: "a", Text: "b"}}}))

	tooMany := make([]app.ImportItem, 1001)
	require.Error(t, Validate(&ImportRequest{Quotes: tooMany}))
}

func TestNewQuoteResponse(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	resp := NewQuoteResponse(&domain.Quote{Community: "g1", Name: "hi", Text: "hello", CreatedAt: created})
	require.NotNil(t, resp.CreatedAt)
	assert.Equal(t, time.UTC, resp.CreatedAt.Location())
	assert.True(t, created.Equal(*resp.CreatedAt))

	legacy := NewQuoteResponse(&domain.Quote{Community: "g1", Name: "hi", Text: "hello"})
	assert.Nil(t, legacy.CreatedAt)

	body, err := json.Marshal(legacy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"community":"g1","name":"hi","text":"hello"}`, string(body))
}

func TestNewListResponse(t *testing.T) {
	empty := NewListResponse(&app.RenderModel{Empty: true})
	assert.Equal(t, MsgEmptyList, empty.Message)

	page := NewListResponse(&app.RenderModel{Label: "Page 1 of 1", Lines: []string{"• a"}, Page: 0, MaxPages: 1})
	assert.Empty(t, page.Message)

	body, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Page 1 of 1", decoded["label"])
	assert.NotContains(t, decoded, "message")
}

func TestNewImportResponse(t *testing.T) {
	resp := NewImportResponse([]app.ImportResult{
		{Name: "a", Status: app.ImportCreated},
		{Name: "b", Status: app.ImportExists},
		{Name: "c", Status: app.ImportCreated},
		{Name: "d d", Status: app.ImportInvalid, Message: domain.MsgNameHasSpace},
	})

	assert.Equal(t, 2, resp.Created)
	assert.Len(t, resp.Results, 4)
}
