package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dashbored/internal/config"
	"github.com/JonMunkholm/dashbored/internal/core"
	"github.com/JonMunkholm/dashbored/internal/history"
	"github.com/JonMunkholm/dashbored/internal/metrics"
)

const exampleCSV = "date,region,sales\n2024-01-01,north,10\n2024-01-02,south,20\n2024-01-03,north,31\n"

type testEnv struct {
	root    string
	service *core.Service
	server  *Server
}

func newTestEnv(t *testing.T, env map[string]string) *testEnv {
	t.Helper()
	root := t.TempDir()

	vars := map[string]string{"DATA_ROOT": root, "RATE_LIMIT_ENABLED": "false"}
	for k, v := range env {
		vars[k] = v
	}
	cfg, err := config.LoadFrom(config.MapLookup(vars))
	require.NoError(t, err)

	m := metrics.New(nil)
	svc := core.NewService(core.ServiceConfig{
		DataRoot:             root,
		MaxUploadSize:        cfg.Upload.MaxFileSize,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		UploadWait:           cfg.Upload.MaxWaitTime,
	}, history.NewMemoryLog(10), m)
	require.NoError(t, svc.Init())

	require.NoError(t, os.WriteFile(filepath.Join(root, "example", core.ExampleDataset), []byte(exampleCSV), 0o644))

	return &testEnv{root: root, service: svc, server: NewServer(cfg, svc, m)}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) writeUpload(t *testing.T, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.root, "uploads", name), []byte(contents), 0o644))
}

func multipartRequest(t *testing.T, target, filename, contents string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHome_DefaultsToFirstDataset(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "DASH-BORED: Simple Drag-and-Drop Dashboard")
	assert.Contains(t, body, "No file uploaded yet.")
	assert.Contains(t, body, `<option value="example_sales.csv" selected>Example: Example Sales Data</option>`)
	assert.Contains(t, body, "<th>region</th>")
	assert.Contains(t, body, `name="x"><option value="">Select column</option><option value="date">`)
	assert.Contains(t, body, `class="theme-light"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestExample_Summary(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/example?view=summary&theme=dark")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Numeric Summary")
	assert.Contains(t, body, `<tr><td>mean</td><td class="num">20.33</td></tr>`)
	assert.Contains(t, body, `class="theme-dark"`)
	assert.NotContains(t, body, `action="/upload"`)
}

func TestHome_ChartFrame(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/?view=chart&chart=bar&x=region&y=sales")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `title="Bar chart of sales by region"`)
	assert.Contains(t, body, "/chart?chart=bar&amp;color_value=%23636efa&amp;dataset=example_sales.csv")
}

func TestHome_ResetsUnknownAxes(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/?view=chart&chart=scatter&x=missing&y=gone")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `title="Scatter plot of sales vs sales"`)
}

func TestHome_Comparison(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/?compare=1&view=table")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Comparison View")
	assert.Contains(t, body, `name="cview" value="chart" checked`)
	assert.Contains(t, body, `name="cchart" value="scatter" checked`)
	assert.Contains(t, body, `name="ccolor_value" value="#b95c70"`)
	assert.Contains(t, body, `class="view-split"`)
}

func TestHome_InvalidParams(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/?view=pie", "/?chart=donut", "/?color_value=red", "/?theme=neon", "/?compare=maybe"} {
		rec := env.get(t, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "VAL001", target)
	}
}

func TestHome_ParseErrorIsNotNoData(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writeUpload(t, "bad.csv", "a,b\n1,2,3\n")

	rec := env.get(t, "/?dataset=uploads/bad.csv")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Code: FILE002")
	assert.NotContains(t, body, core.NoDataMessage)
}

func TestHome_MissingDatasetIsNoData(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/?dataset=../../etc/passwd")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), core.NoDataMessage)
}

func TestChart(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/chart?dataset=example_sales.csv&chart=bar&x=region&y=sales&color_value=%23123456")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "echarts")
	assert.Contains(t, rec.Body.String(), "#123456")
}

func TestChart_ValidationMessage(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/chart?dataset=example_sales.csv&chart=bar&x=region")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), core.InvalidColumnsMessage)

	rec = env.get(t, "/chart?dataset=uploads/none.csv&chart=histogram&x=a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), core.NoDataMessage)
}

func TestFormUpload(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, multipartRequest(t, "/upload", "my data.csv", "a,b\n1,2\n"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?dataset=uploads%2Fmy_data.csv", rec.Header().Get("Location"))

	page := env.get(t, "/?dataset=uploads/my_data.csv")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Last uploaded file: my data.csv")
	assert.Contains(t, page.Body.String(), `<option value="uploads/my_data.csv" selected>Uploaded: my_data.csv</option>`)
}

func TestFormUpload_Errors(t *testing.T) {
	env := newTestEnv(t, map[string]string{"UPLOAD_MAX_FILE_SIZE": "16"})

	rec := env.do(t, multipartRequest(t, "/upload", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE004")

	rec = env.do(t, multipartRequest(t, "/upload", "big.csv", strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE001")

	rec = env.do(t, multipartRequest(t, "/upload", "???", "a\n1\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE008")
}

func TestAPIUpload_Envelope(t *testing.T) {
	env := newTestEnv(t, nil)

	payload, err := json.Marshal(uploadRequest{
		Filename: "b.csv",
		Contents: "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte("x,y\n1,2\n")),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]string{"dataset": "uploads/b.csv"}, decodeJSON[map[string]string](t, rec))

	data, err := os.ReadFile(filepath.Join(env.root, "uploads", "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x,y\n1,2\n", string(data))
}

func TestAPIUpload_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"no comma", `{"filename":"c.csv","contents":"garbage"}`, http.StatusBadRequest, "FILE007"},
		{"bad base64", `{"filename":"c.csv","contents":"data:,***"}`, http.StatusBadRequest, "FILE007"},
		{"missing filename", `{"contents":"data:,YQ=="}`, http.StatusBadRequest, "VAL001"},
		{"malformed json", `{"filename":`, http.StatusBadRequest, "VAL001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := env.do(t, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeJSON[ErrorResponse](t, rec).Code)
		})
	}

	_, err := os.Stat(filepath.Join(env.root, "uploads", "c.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing is written on failure")
}

func TestAPIUpload_Multipart(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, multipartRequest(t, "/api/upload", "m.csv", "a\n1\n"))
	require.Equal(t, http.StatusCreated, rec.Code)

	recent := env.get(t, "/api/uploads/recent")
	require.Equal(t, http.StatusOK, recent.Code)
	got := decodeJSON[struct {
		Uploads []core.UploadRecord `json:"uploads"`
	}](t, recent)
	require.Len(t, got.Uploads, 1)
	assert.Equal(t, "uploads/m.csv", got.Uploads[0].Dataset)
	assert.Equal(t, "192.0.2.1", got.Uploads[0].IP)
}

func TestAPI_DatasetsColumnsSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writeUpload(t, "z.csv", "k\n1\n")

	datasets := decodeJSON[struct {
		Datasets []core.Option `json:"datasets"`
	}](t, env.get(t, "/api/datasets"))
	assert.Equal(t, []core.Option{
		{Label: core.ExampleDatasetLabel, Value: core.ExampleDataset},
		{Label: "Uploaded: z.csv", Value: "uploads/z.csv"},
	}, datasets.Datasets)

	cols := decodeJSON[core.AxisChoices](t, env.get(t, "/api/columns?dataset=example_sales.csv"))
	assert.Equal(t, "sales", cols.DefaultX)
	assert.Equal(t, "sales", cols.DefaultY)
	assert.Len(t, cols.X, 3)
	assert.Equal(t, []core.Option{{Label: "sales", Value: "sales"}}, cols.Y)

	summary := decodeJSON[core.Summary](t, env.get(t, "/api/summary?dataset=example_sales.csv"))
	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, []core.ColumnStats{{Column: "sales", Mean: 20.33, Min: 10, Max: 31}}, summary.Numeric)
}

func TestAPI_SummaryHugeValues(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writeUpload(t, "huge.csv", "v\n1e307\n2e307\n")

	rec := env.get(t, "/api/summary?dataset=uploads/huge.csv")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeJSON[core.Summary](t, rec)
	require.Len(t, summary.Numeric, 1)
	assert.Equal(t, 2e307, summary.Numeric[0].Max)

	rec = env.get(t, "/?dataset=uploads/huge.csv&view=summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Inf")
}

func TestAPI_View(t *testing.T) {
	env := newTestEnv(t, nil)

	res := decodeJSON[core.Result](t, env.get(t, "/api/view?dataset=example_sales.csv&view=chart&chart=box&x=region&y=sales"))
	assert.Equal(t, core.ResultChart, res.Kind)
	require.NotNil(t, res.Chart)
	assert.Equal(t, "Box plot", res.Chart.Title)

	res = decodeJSON[core.Result](t, env.get(t, "/api/view?dataset=example_sales.csv&view=chart&chart=scatter&x=region"))
	assert.Equal(t, core.ResultValidation, res.Kind)
	assert.Equal(t, core.InvalidColumnsMessage, res.Message)

	res = decodeJSON[core.Result](t, env.get(t, "/api/view?dataset=uploads/absent.csv"))
	assert.Equal(t, core.ResultPlaceholder, res.Kind)

	rec := env.get(t, "/api/view?view=pie")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL001", decodeJSON[ErrorResponse](t, rec).Code)
}

func TestAPI_ParseError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writeUpload(t, "bad.csv", "a,b\n1,2,3\n")

	rec := env.get(t, "/api/summary?dataset=uploads/bad.csv")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FILE002", decodeJSON[ErrorResponse](t, rec).Code)
}

func TestAPI_RecentUploadsLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, limit := range []string{"0", "abc", "1000"} {
		rec := env.get(t, "/api/uploads/recent?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
	rec := env.get(t, "/api/uploads/recent?limit=5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uploads":[]}`, rec.Body.String())
}

func TestAPI_KeyRequired(t *testing.T) {
	env := newTestEnv(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "k1"})

	rec := env.get(t, "/api/datasets")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	req.Header.Set("X-API-Key", "k1")
	assert.Equal(t, http.StatusOK, env.do(t, req).Code)

	assert.Equal(t, http.StatusOK, env.get(t, "/").Code, "pages are not behind the key")
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "2",
	})

	assert.Equal(t, http.StatusOK, env.get(t, "/healthz").Code)
	assert.Equal(t, http.StatusOK, env.get(t, "/healthz").Code)
	rec := env.get(t, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE001")
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	health := decodeJSON[map[string]any](t, env.get(t, "/healthz"))
	assert.Equal(t, "ok", health["status"])

	env.get(t, "/?view=summary")
	rec := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dashbored_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, body, `dashbored_dataset_loads_total{outcome="ok",source="example"} 1`)
	assert.Contains(t, body, `dashbored_view_renders_total{mode="summary",result="summary"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	env := newTestEnv(t, map[string]string{"METRICS_ENABLED": "false"})
	assert.Equal(t, http.StatusNotFound, env.get(t, "/metrics").Code)
}

func TestNotFoundAndStatic(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR000")

	css := env.get(t, "/static/style.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Body.String(), ".theme-dark")
}
