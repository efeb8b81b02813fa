package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/remote"
	"go-chi-calculator/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeys(t *testing.T) {
	keys, err := splitKeys([]string{"12.5", "+", "3", "multiply", "2", "=", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", ".", "5", "+", "3", "*", "2", "=", "C"}, keys)

	_, err = splitKeys([]string{"1x"})
	assert.Error(t, err)
}

func TestPressKeysAgainstService(t *testing.T) {
	srv := httptest.NewServer(server.NewRouter(server.WithRoutes(calculator.RegisterRoutes)))
	defer srv.Close()

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"5", "+", "3", "="}, want: "8"},
		{args: []string{"5", "+", "3", "*", "2", "="}, want: "16"},
		{args: []string{"5", "/", "0", "="}, want: "Error"},
		{args: []string{"1", "/", "3", "="}, want: "0.3333333333333333"},
		{args: []string{"7", "C", "4"}, want: "4"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			keys, err := splitKeys(tc.args)
			require.NoError(t, err)

			m := keypad.New(remote.NewClient(srv.URL))
			defer m.Close()

			snap, err := pressKeys(context.Background(), m, keys)
			require.NoError(t, err)
			assert.Equal(t, tc.want, snap.Display)
		})
	}
}

func TestEvalCommandPrintsDisplay(t *testing.T) {
	srv := httptest.NewServer(server.NewRouter(server.WithRoutes(calculator.RegisterRoutes)))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"eval", "--remote-url", srv.URL, "9", "-", "4", "="})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "5\n", out.String())
}
