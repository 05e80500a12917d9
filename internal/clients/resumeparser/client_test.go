package resumeparser

import (
	"bytes"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
)

const (
	apyHubURL   = "https://api.apyhub.com/sharpapi/api/v1/hr/parse_resume"
	apiLayerURL = "https://api.apilayer.com/resume_parser/upload"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func fileResponse(t *testing.T, name string) *http.Response {
	file, err := os.ReadFile("testdata/" + name)
	assert.NoError(t, err)
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBuffer(file))}
}

func statusResponseOf(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(`{"error":"x"}`))}
}

func isSubmit(req *http.Request) bool {
	return req.Method == "POST" && req.URL.String() == apyHubURL
}

func isStatusCheck(req *http.Request) bool {
	return req.Method == "GET" && req.URL.String() == apyHubURL+"/job/status/a1b2c3d4-job"
}

var document = Document{Name: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

func newAPYHub(httpClient HTTPClient) *APYHub {
	client := NewAPYHub("apy-secret-key", apyHubURL)
	client.SetHTTPClient(httpClient)
	client.SetPolling(0, 3)
	return client
}

func Test_APYHub_Parse_ShouldPollUntilCompleted(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if !isSubmit(req) || req.Header.Get("apy-token") != "apy-secret-key" {
			return false
		}
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			return false
		}
		_, fileHeader, err := req.FormFile("file")
		return err == nil && fileHeader.Filename == "cv.pdf" && req.FormValue("language") == "English"
	})).Return(fileResponse(t, "apyhub_submit.json"), nil).Once()
	mockClient.On("Do", mock.MatchedBy(isStatusCheck)).Return(fileResponse(t, "apyhub_pending.json"), nil).Once()
	mockClient.On("Do", mock.MatchedBy(isStatusCheck)).Return(fileResponse(t, "apyhub_completed.json"), nil).Once()

	result, err := newAPYHub(mockClient).Parse(context.Background(), document)

	assert.NoError(err)
	assert.Equal("Jane Doe", gjson.GetBytes(result, "candidate_name").String())
	mockClient.AssertNumberOfCalls(t, "Do", 3)
}

func Test_APYHub_Parse_WhenFileNameHasQuotesAndNewlines_ShouldKeepItIntact(t *testing.T) {

	name := "my \"cv\"\r\nX-Injected: 1.pdf"

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if !isSubmit(req) || req.ParseMultipartForm(1<<20) != nil {
			return false
		}
		_, fileHeader, err := req.FormFile("file")
		return err == nil && fileHeader.Filename == name && fileHeader.Header.Get("X-Injected") == "" &&
			req.FormValue("language") == "English"
	})).Return(fileResponse(t, "apyhub_submit.json"), nil).Once()
	mockClient.On("Do", mock.MatchedBy(isStatusCheck)).Return(fileResponse(t, "apyhub_completed.json"), nil).Once()

	_, err := newAPYHub(mockClient).Parse(context.Background(),
		Document{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4")})

	assert.NoError(t, err)
	mockClient.AssertNumberOfCalls(t, "Do", 2)
}

func Test_APYHub_Parse_WhenJobFailed_ShouldReturnError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(isSubmit)).Return(fileResponse(t, "apyhub_submit.json"), nil).Once()
	mockClient.On("Do", mock.MatchedBy(isStatusCheck)).Return(&http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(`{"status":"failed"}`)),
	}, nil).Once()

	_, err := newAPYHub(mockClient).Parse(context.Background(), document)

	assert.ErrorIs(t, err, ErrParseFailed)
}

func Test_APYHub_Parse_WhenNeverCompleted_ShouldTimeOut(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(isSubmit)).Return(fileResponse(t, "apyhub_submit.json"), nil).Once()
	for i := 0; i < 3; i++ {
		mockClient.On("Do", mock.MatchedBy(isStatusCheck)).Return(fileResponse(t, "apyhub_pending.json"), nil).Once()
	}

	_, err := newAPYHub(mockClient).Parse(context.Background(), document)

	assert.ErrorIs(err, ErrParseTimeout)
	mockClient.AssertNumberOfCalls(t, "Do", 4)
}

func Test_APYHub_Parse_WhenRateLimited_ShouldReturnRateLimitError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(isSubmit)).Return(statusResponseOf(http.StatusTooManyRequests), nil).Once()

	_, err := newAPYHub(mockClient).Parse(context.Background(), document)

	assert.ErrorIs(t, err, ErrVendorRateLimited)
}

func Test_APYHub_Parse_WhenNoJobID_ShouldReturnError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(isSubmit)).Return(&http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}, nil).Once()

	_, err := newAPYHub(mockClient).Parse(context.Background(), document)

	assert.ErrorContains(t, err, "no job_id")
}

func Test_APILayer_Parse_ShouldUploadRawBytes(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body, _ := io.ReadAll(req.Body)
		return req.Method == "POST" && req.URL.String() == apiLayerURL &&
			req.Header.Get("apikey") == "layer-secret-key" &&
			req.Header.Get("Content-Type") == "application/octet-stream" &&
			string(body) == "%PDF-1.4"
	})).Return(fileResponse(t, "apilayer_result.json"), nil).Once()

	client := NewAPILayer("layer-secret-key", apiLayerURL)
	client.SetHTTPClient(mockClient)

	result, err := client.Parse(context.Background(), document)

	assert.NoError(err)
	assert.Equal("John Smith", gjson.GetBytes(result, "name").String())
}

func Test_APILayer_Check_ShouldProbeByURLEndpoint(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == "GET" &&
			req.URL.String() == "https://api.apilayer.com/resume_parser/url?url=https%3A%2F%2Fexample.com%2Ftest.pdf"
	})).Return(statusResponseOf(http.StatusUnauthorized), nil).Once()

	client := NewAPILayer("layer-secret-key", apiLayerURL)
	client.SetHTTPClient(mockClient)

	err := client.Check(context.Background())

	assert.ErrorContains(t, err, "status 401")
}

func Test_Configured_WhenKeyTooShort_ShouldBeFalse(t *testing.T) {

	assert := assert.New(t)

	assert.False(NewAPYHub("short", apyHubURL).Configured())
	assert.False(NewAPILayer("", apiLayerURL).Configured())
	assert.True(NewAPILayer("layer-secret-key", apiLayerURL).Configured())
}
