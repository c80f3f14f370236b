package worker

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	resp *http.Response
	err  error
}

func (s *stubSender) Do(req *http.Request) (*http.Response, error) {
	return s.resp, s.err
}

func TestBreakerSender_PassesThroughSuccess(t *testing.T) {
	want := &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}
	s := NewBreakerSender("test", &stubSender{resp: want}, nil)

	req, err := http.NewRequest(http.MethodPost, "http://m.example/hooks", nil)
	require.NoError(t, err)

	resp, err := s.Do(req)
	require.NoError(t, err)
	assert.Same(t, want, resp)
}

func TestBreakerSender_PassesThroughNon2xx(t *testing.T) {
	// A reached non-2xx response is a normal outcome, not a breaker failure.
	want := &http.Response{StatusCode: http.StatusInternalServerError, Body: http.NoBody}
	s := NewBreakerSender("test", &stubSender{resp: want}, nil)

	req, _ := http.NewRequest(http.MethodPost, "http://m.example/hooks", nil)
	resp, err := s.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBreakerSender_OpensAfterRepeatedTransportErrors(t *testing.T) {
	s := NewBreakerSender("test", &stubSender{err: errors.New("connection refused")}, nil)

	req, _ := http.NewRequest(http.MethodPost, "http://m.example/hooks", nil)
	for i := 0; i < 10; i++ {
		_, err := s.Do(req)
		require.Error(t, err)
	}

	_, err := s.Do(req)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
