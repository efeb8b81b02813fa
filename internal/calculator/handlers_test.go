package calculator

import (
	"net/http"
	"testing"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(observability.RequestIDMiddleware)
	RegisterRoutes(r)
	return r
}

func TestCalculateSuccess(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		body string
		want float64
	}{
		{body: `{"op":"+","a":5,"b":3}`, want: 8},
		{body: `{"op":"-","a":5,"b":3}`, want: 2},
		{body: `{"op":"*","a":8,"b":2}`, want: 16},
		{body: `{"op":"/","a":1,"b":8}`, want: 0.125},
		{body: `{"op":"divide","a":9,"b":3}`, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			w := testutil.PostJSON(h, "/calculator/calculate", tc.body)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp CalcResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Result != tc.want {
				t.Fatalf("expected %g, got %g", tc.want, resp.Result)
			}
		})
	}
}

func TestCalculateDivisionByZeroIsDomainError(t *testing.T) {
	w := testutil.PostJSON(newTestRouter(), "/calculator/calculate", `{"op":"/","a":5,"b":0}`)

	testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, w.Code)

	var body observability.ErrorBody
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body.Code != CodeDivisionByZero {
		t.Fatalf("expected code %q, got %q", CodeDivisionByZero, body.Code)
	}
	if body.RequestID == "" {
		t.Fatal("expected request_id in error body")
	}
}

func TestCalculateRejectsMalformedRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "bad json", body: `{"op":`, code: CodeInvalidBody},
		{name: "unknown operator", body: `{"op":"^","a":1,"b":2}`, code: CodeUnknownOperator},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.PostJSON(newTestRouter(), "/calculator/calculate", tc.body)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

			var body observability.ErrorBody
			testutil.DecodeJSONBody(t, w.Body, &body)
			if body.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Code)
			}
		})
	}
}

func TestOperationRoutes(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		path string
		want float64
	}{
		{path: "/calculator/add", want: 12},
		{path: "/calculator/subtract", want: 8},
		{path: "/calculator/multiply", want: 20},
		{path: "/calculator/divide", want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			w := testutil.PostJSON(h, tc.path, `{"a":10,"b":2}`)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp CalcResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Result != tc.want {
				t.Fatalf("expected %g, got %g", tc.want, resp.Result)
			}
		})
	}
}
