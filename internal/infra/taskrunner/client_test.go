package taskrunner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunPostsTaskName(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/market-data/tasks/run", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Run(context.Background(), "recompute_indicators")
	require.NoError(t, err)
	require.Equal(t, "recompute_indicators", got["task_name"])
}

func TestRunErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Run(context.Background(), "recompute_indicators")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=403")
}
