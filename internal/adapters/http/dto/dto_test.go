package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeConflict, "Quote with name `hi` already exists.").
		WithDetails(map[string]string{"name": "taken"}).
		WithTraceID("trace-1")

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"error": {"code": "CONFLICT", "message": "Quote with name `+"`hi`"+` already exists.", "details": {"name": "taken"}},
		"traceId": "trace-1"
	}`, string(body))
}

func TestErrorResponse_EmptyDetailsOmitted(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeNotFound, "gone").WithDetails(map[string]string{})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "details")
	assert.NotContains(t, string(body), "traceId")
}

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeBadRequest:      http.StatusBadRequest,
		ErrorCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
		ErrorCodeRateLimited:     http.StatusTooManyRequests,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeInternal:        http.StatusInternalServerError,
		"SOMETHING_ELSE":         http.StatusInternalServerError,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, StatusFor(code))
		})
	}
}

// newContext returns a gin context for a GET / and the recorder behind it.
func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestGetTraceID(t *testing.T) {
	tests := map[string]struct {
		stored any
		header string
		want   string
	}{
		"nothing":                 {},
		"stored":                  {stored: "ctx-1", want: "ctx-1"},
		"request id header":       {header: "req-9", want: "req-9"},
		"stored wins over header": {stored: "ctx-1", header: "req-9", want: "ctx-1"},
		"stored non-string":       {stored: 42, header: "req-9"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext()
			if tt.stored != nil {
				c.Set(traceIDKey, tt.stored)
			}

			if tt.header != "" {
				c.Request.Header.Set("X-Request-ID", tt.header)
			}

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{
			err:     domain.NewNotFoundError(domain.EntityQuote, "hello"),
			status:  http.StatusNotFound,
			code:    ErrorCodeNotFound,
			message: "Quote with name `hello` does not exist.",
		},
		{
			err:     domain.NewNotFoundError("page", "7"),
			status:  http.StatusNotFound,
			code:    ErrorCodeNotFound,
			message: `page "7" not found`,
		},
		{
			err:     fmt.Errorf("creating: %w", domain.NewAlreadyExistsError(domain.EntityQuote, "hello")),
			status:  http.StatusConflict,
			code:    ErrorCodeConflict,
			message: "Quote with name `hello` already exists.",
		},
		{
			err:     domain.NewValidationError("text", domain.MsgTextLength),
			status:  http.StatusBadRequest,
			code:    ErrorCodeValidation,
			message: domain.MsgTextLength,
		},
		{
			err:     domain.NewUnavailableError("sqlite", "not ready"),
			status:  http.StatusServiceUnavailable,
			code:    ErrorCodeUnavailable,
			message: msgUnavailable,
		},
		{
			err:     domain.NewFaultError("sqlite get", errors.New("disk I/O error")),
			status:  http.StatusInternalServerError,
			code:    ErrorCodeInternal,
			message: msgInternal,
		},
		{
			err:     errors.New("unexpected"),
			status:  http.StatusInternalServerError,
			code:    ErrorCodeInternal,
			message: msgInternal,
		},
	}

	for i, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			traceID := fmt.Sprintf("trace-%d", i)

			c, w := newContext()
			c.Set(traceIDKey, traceID)

			HandleError(c, tt.err)

			resp := decodeError(t, w)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, traceID, resp.TraceID)
		})
	}
}

func TestHandleError_HidesFaultCause(t *testing.T) {
	c, w := newContext()

	HandleError(c, domain.NewFaultError("mongo insert", errors.New("secret connection detail")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret connection detail")
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	status, resp := MapDomainError(domain.NewValidationErrorWithValue("name", domain.MsgNameHasSpace, "a b"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.MsgNameHasSpace, resp.Error.Message)
	assert.Equal(t, map[string]string{"name": domain.MsgNameHasSpace}, resp.Error.Details)
}

func TestMapDomainError_Nil(t *testing.T) {
	status, resp := MapDomainError(nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := newContext()
	c.Request.Header.Set("X-Request-ID", "req-1")

	AbortWithErrorCode(c, ErrorCodeRateLimited, "slow down")

	require.True(t, c.IsAborted())

	resp := decodeError(t, w)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrorCodeRateLimited, resp.Error.Code)
	assert.Equal(t, "slow down", resp.Error.Message)
	assert.Equal(t, "req-1", resp.TraceID)
}

func TestRespondWithValidationErrors(t *testing.T) {
	c, w := newContext()

	RespondWithValidationErrors(c, map[string]string{"action": "must be one of: prev next select"})

	resp := decodeError(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, map[string]string{"action": "must be one of: prev next select"}, resp.Error.Details)
}

func TestValidator_Shared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		field   string
	}{
		{name: "valid", body: `{"content":"!motd"}`},
		{name: "malformed json", body: `{"content":`, wantErr: ErrBinding},
		{name: "wrong type", body: `{"content":42}`, wantErr: ErrBinding},
		{name: "missing content", body: `{}`, wantErr: ErrValidation, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext()
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req MessageRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "!motd", req.Content)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)

			if tt.field != "" {
				assert.Equal(t, "this field is required", ValidationErrors(err)[tt.field])
			}
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	bind := func(query string) (ListQuery, error) {
		c, _ := newContext()
		c.Request = httptest.NewRequest(http.MethodGet, "/quotes"+query, nil)

		var q ListQuery
		err := BindQueryAndValidate(c, &q)

		return q, err
	}

	q, err := bind("?page=4")
	require.NoError(t, err)
	assert.Equal(t, 4, q.Page)

	q, err = bind("")
	require.NoError(t, err)
	assert.Equal(t, 0, q.Page)

	_, err = bind("?page=four")
	require.ErrorIs(t, err, ErrBinding)
}

func TestValidationErrors_Messages(t *testing.T) {
	err := Validate(&NavigateRequest{Label: "Page 1 of 2", Action: "jump"})
	assert.Equal(t, map[string]string{"action": "must be one of: prev next select"}, ValidationErrors(err))

	err = Validate(&NavigateRequest{Label: "Page 1 of 2", Action: "select", Value: "x"})
	assert.Equal(t, map[string]string{"value": "must be a number"}, ValidationErrors(err))

	err = Validate(&ImportRequest{Quotes: make([]app.ImportItem, 1001)})
	assert.Equal(t, map[string]string{"quotes": "must have at most 1000 items"}, ValidationErrors(err))
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Empty(t, ValidationErrors(errors.New("plain")))
	assert.Empty(t, ValidationErrors(nil))
}

func TestValidateCommunity_DomainError(t *testing.T) {
	require.NoError(t, ValidateCommunity("guild-1"))

	err := ValidateCommunity("bad id")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "community", ve.Field)
	assert.Equal(t, "bad id", ve.Value)
}

func TestHandleError_WrappedNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, fmt.Errorf("get: %w", domain.NewNotFoundError(domain.EntityQuote, "motd")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "motd")
}
