package templates_test

import (
	"testing"
	"time"

	"blogjobs/internal/adapters/out/templates"
	"blogjobs/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RenderBroadcast(t *testing.T) {
	r, err := templates.NewRenderer()
	require.NoError(t, err)

	body, err := r.RenderBroadcast(ports.BroadcastView{
		Link:      "https://blog.example.com/42?email=a%40example.com",
		Title:     "Go <generics>",
		Author:    "ann",
		Summary:   "short summary",
		Modified:  time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		CancelURL: "https://blog.example.com/subscribe?act=cancel&hash=abc",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Go &lt;generics&gt;")
	assert.Contains(t, body, "2024-02-03 04:05:06")
	assert.Contains(t, body, `href="https://blog.example.com/42?email=a%40example.com"`)
	assert.Contains(t, body, "act=cancel&amp;hash=abc")
	assert.Contains(t, body, "short summary")
}

func TestRenderer_RenderLoginNotice(t *testing.T) {
	r, err := templates.NewRenderer()
	require.NoError(t, err)

	body, err := r.RenderLoginNotice(ports.LoginView{
		Username: "admin",
		Time:     time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		IP:       "1.2.3.4",
		Address:  "Shenzhen",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "<b>admin</b>")
	assert.Contains(t, body, "1.2.3.4")
	assert.Contains(t, body, "Shenzhen")
}
