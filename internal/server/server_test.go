package server_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/efactura-reconciler/internal/server"
)

func newTestServer(opts ...server.Option) *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(config, opts...)
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "parser", "ubl", "testdata", name))
	require.NoError(t, err)
	return data
}

func post(t *testing.T, srv *server.Server, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	response := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestRequestID(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(server.WithLogger(zerolog.New(&logs)))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	id := w.Header().Get(server.HeaderRequestID)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), id)
	assert.Contains(t, logs.String(), `"path":"/health"`)

	// a well-formed client ID is echoed, anything else is replaced
	given := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.HeaderRequestID, given)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(server.HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(server.HeaderRequestID))
}

type productSummary struct {
	Documents []struct {
		DocumentID string `json:"document_id"`
		BaseType   string `json:"base_type"`
		Absorbed   int    `json:"absorbed"`
		Mismatch   bool   `json:"mismatch"`
	} `json:"documents"`
	Rows []struct {
		DocumentNumber string          `json:"document_number"`
		TotalPerLine   decimal.Decimal `json:"total_per_line"`
	} `json:"rows"`
	Warnings []string `json:"warnings"`
}

func TestProductSummaryEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(t, srv, "/api/v1/product-summary", fixture(t, "invoice_fake_discount.xml"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[productSummary](t, w)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "FD-2024-001", resp.Documents[0].DocumentID)
	assert.Equal(t, 1, resp.Documents[0].Absorbed)
	assert.False(t, resp.Documents[0].Mismatch)

	total := decimal.Zero
	for _, r := range resp.Rows {
		total = total.Add(r.TotalPerLine)
	}
	assert.Equal(t, "886.5", total.String())
}

func TestProductSummaryEndpoint_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string][]byte{
		"a.xml": fixture(t, "invoice_fake_discount.xml"),
		"b.xml": []byte("<Invoice>"),
	} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	w := post(t, newTestServer(), "/api/v1/product-summary", buf.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[productSummary](t, w)
	assert.Len(t, resp.Documents, 1)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "request:b.xml")
}

func TestProductSummaryEndpoint_Errors(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name string
		path string
		body []byte
		code int
	}{
		{"empty body", "/api/v1/product-summary", nil, http.StatusBadRequest},
		{"not a document", "/api/v1/product-summary", []byte("hello"), http.StatusBadRequest},
		{"malformed XML", "/api/v1/product-summary", []byte("<Invoice><ID>"), http.StatusUnprocessableEntity},
		{"unsupported root", "/api/v1/product-summary", fixture(t, "order.xml"), http.StatusUnprocessableEntity},
		{
			"missing payable", "/api/v1/product-summary",
			[]byte(`<Invoice xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"><cbc:ID>X</cbc:ID><cbc:IssueDate>2024-01-01</cbc:IssueDate></Invoice>`),
			http.StatusUnprocessableEntity,
		},
		{"bad date", "/api/v1/product-summary?start_date=14.03.2024", fixture(t, "invoice_fake_discount.xml"), http.StatusBadRequest},
		{"start after end", "/api/v1/product-summary?start_date=2024-04-01&end_date=2024-03-01", fixture(t, "invoice_fake_discount.xml"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, srv, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			resp := decode[server.ErrorResponse](t, w)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestProductSummaryEndpoint_FilteredOut(t *testing.T) {
	w := post(t, newTestServer(), "/api/v1/product-summary?supplier=nobody", fixture(t, "invoice_fake_discount.xml"))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[productSummary](t, w)
	assert.Empty(t, resp.Documents)
	assert.Empty(t, resp.Rows)
}

func TestSummaryEndpoint(t *testing.T) {
	w := post(t, newTestServer(), "/api/v1/summary", fixture(t, "credit_note.xml"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Rows []struct {
			DocumentNumber string          `json:"document_number"`
			Supplier       string          `json:"supplier"`
			PayableAmount  decimal.Decimal `json:"payable_amount"`
			IsCreditNote   bool            `json:"is_credit_note"`
		} `json:"rows"`
	}](t, w)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "CN-77", resp.Rows[0].DocumentNumber)
	assert.Equal(t, "Retur Distributie SA", resp.Rows[0].Supplier)
	assert.Equal(t, "-699.01", resp.Rows[0].PayableAmount.String())
	assert.True(t, resp.Rows[0].IsCreditNote)
}

func TestInfoEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(t, srv, "/api/v1/info", fixture(t, "invoice_foreign_currency.xml"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[server.InfoResponse](t, w)
	assert.Equal(t, "xml", resp.Format)
	assert.Equal(t, "Invoice", resp.Kind)
	assert.Equal(t, "EU-42", resp.DocumentID)
	require.NotNil(t, resp.Outline)
	assert.Equal(t, 1, resp.Outline.Attachments)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, 2, resp.Attachments[0].Pages)

	w = post(t, srv, "/api/v1/info", fixture(t, "order.xml"))
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[server.InfoResponse](t, w)
	assert.Equal(t, "Order", resp.Outline.Root)
	assert.Empty(t, resp.Kind)

	w = post(t, srv, "/api/v1/info", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchemaEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil)
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, resp, "product_summary_row")
	assert.Contains(t, resp, "summary_row")
}

// Benchmark tests

func BenchmarkProductSummaryEndpoint(b *testing.B) {
	srv := server.NewServer(&server.Config{})
	data, err := os.ReadFile(filepath.Join("..", "parser", "ubl", "testdata", "invoice_fake_discount.xml"))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/product-summary", bytes.NewReader(data))
		srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}
}
