package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/checkout"
	"storefront/internal/service"
)

func run(t *testing.T, backend http.Handler, stdin string, args ...string) (string, string, error) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--backend", srv.URL, "--token", "tok"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestTrackCommand(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `{"order_id":"665f","order_number":"SF-7","status":"accepted","total":540}`)
	})

	out, _, err := run(t, backend, "", "track", "665f")
	require.NoError(t, err)
	assert.Contains(t, out, "Order #SF-7")
	assert.Contains(t, out, "[x] Order Placed")
	assert.Contains(t, out, "[>] Order Accepted")
	assert.Contains(t, out, "[ ] Delivered")
}

func TestTrackCommandBackendFailure(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"db exploded"}`)
	})

	_, errOut, err := run(t, backend, "", "track", "665f")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Action failed. Please try again.")
	assert.NotContains(t, errOut, "db exploded")
}

func TestCheckoutPlacePromptsForProfile(t *testing.T) {
	creates := 0
	profiled := false
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/order/create":
			creates++
			if !profiled {
				w.WriteHeader(http.StatusUnprocessableEntity)
				io.WriteString(w, `{"detail":"Profile missing"}`)
				return
			}
			io.WriteString(w, `{"order_id":"ord-1","order_number":"SF-1"}`)
		case "/profile/update":
			profiled = true
			io.WriteString(w, `{}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{}`)
		}
	})

	stdin := "Asha\n98765\n12 MG Road\n560001\nBengaluru\nKA\n"
	out, _, err := run(t, backend, stdin, "checkout", "place", "--method", "cod")
	require.NoError(t, err)
	assert.Equal(t, 2, creates)
	assert.Contains(t, out, "Please complete your delivery profile to continue.")
	assert.Contains(t, out, "Order SF-1 placed")
}

func TestStdinPromptDefersOnEOF(t *testing.T) {
	p := &stdinPrompt{in: bufio.NewReader(strings.NewReader("Asha\n")), out: io.Discard}
	_, err := p.CompleteProfile(context.Background())
	assert.ErrorIs(t, err, checkout.ErrProfileDeferred)
}

func TestOwnerStatusRejectsSkippedStage(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"order_id":"o1","status":"pending"}`)
	})

	_, _, err := run(t, backend, "", "owner", "status", "o1", "shipped")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}
