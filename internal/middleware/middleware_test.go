package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidations()
}

type errorBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   dto.ErrorDetail `json:"error"`
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{
			name:       "student not found",
			err:        apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Student not found with ID: 7"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrorCodeResourceNotFound,
			wantMsg:    "Student not found with ID: 7",
		},
		{
			name:       "duplicate email",
			err:        apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Student with email a@x.com already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrorCodeResourceAlreadyExists,
			wantMsg:    "Student with email a@x.com already exists",
		},
		{
			name:       "validation without message",
			err:        fmt.Errorf("%w: nil input", apperrors.ErrValidationFailed),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidationFailed,
			wantMsg:    "Validation failed",
		},
		{
			name:       "bad request",
			err:        apperrors.NewBadRequestError("Invalid student ID"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeBadRequest,
			wantMsg:    "Invalid student ID",
		},
		{
			name:       "infrastructure failure is hidden",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrorCodeInternalServer,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/students/7", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Success {
				t.Error("success must be false")
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.wantCode)
			}
			if body.Message != tt.wantMsg || body.Error.Message != tt.wantMsg {
				t.Errorf("message = %q / %q, want %q", body.Message, body.Error.Message, tt.wantMsg)
			}
		})
	}
}

type sampleRequest struct {
	FirstName   string `json:"firstName" binding:"required,personname"`
	Phone       string `json:"phone" binding:"required,phone"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,datetime=2006-01-02"`
}

func bind(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req sampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)))
	return w
}

func TestRegisterValidations(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"letters in phone", `{"firstName":"A","phone":"12ab567","dateOfBirth":"2002-05-15"}`, "phone"},
		{"short phone", `{"firstName":"A","phone":"123","dateOfBirth":"2002-05-15"}`, "phone"},
		{"bad date", `{"firstName":"A","phone":"9876543210","dateOfBirth":"15/05/2002"}`, "dateOfBirth"},
		{"long name", `{"firstName":"` + strings.Repeat("x", 101) + `","phone":"9876543210","dateOfBirth":"2002-05-15"}`, "firstName"},
		{"missing name", `{"phone":"9876543210","dateOfBirth":"2002-05-15"}`, "firstName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bind(t, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var body errorBody
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body.Error.Field != tt.wantField {
				t.Errorf("field = %q, want %q (body %s)", body.Error.Field, tt.wantField, w.Body.String())
			}
		})
	}

	if w := bind(t, `{"firstName":"Ann","phone":"9876543210","dateOfBirth":"2002-05-15"}`); w.Code != http.StatusNoContent {
		t.Errorf("valid body rejected: %d %s", w.Code, w.Body.String())
	}
	if w := bind(t, `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("expected a generated request id, header %q body %q", generated, w.Body.String())
	}
	if !strings.Contains(buf.String(), `"requestID":"`+generated+`"`) {
		t.Errorf("log line missing request id: %s", buf.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("incoming request id not propagated, got %q", got)
	}
}
