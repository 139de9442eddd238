package uploader

import "net/http"

type MockDoer struct {
	Handler func(req *http.Request) (*http.Response, error)
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.Handler == nil {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	}
	return m.Handler(req)
}
