package post_test

import (
	"math"
	"testing"
	"time"

	"blogjobs/internal/core/domain/model/post"
	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func restore(t *testing.T, status post.Status, postDate time.Time, views int64) *post.Post {
	t.Helper()
	p, err := post.RestorePost(7, "Title", "author", "<p>body</p>", status, postDate, postDate, views, 0)
	require.NoError(t, err)
	return p
}

func TestNewPost(t *testing.T) {
	t.Run("creates draft", func(t *testing.T) {
		p, err := post.NewPost(1, "Hello", "me", "content")

		require.NoError(t, err)
		assert.Equal(t, post.Draft, p.Status())
		require.NoError(t, p.Validate())
	})

	t.Run("rejects bad id and empty title together", func(t *testing.T) {
		_, err := post.NewPost(0, " ", "me", "content")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestPost_ZeroValueIsInvalid(t *testing.T) {
	var p post.Post
	require.ErrorIs(t, p.Validate(), post.ErrPostIsNotConstructed)
}

func TestPost_Publish(t *testing.T) {
	t.Run("draft becomes published with fresh timestamps", func(t *testing.T) {
		p := restore(t, post.Draft, now.Add(-48*time.Hour), 0)

		require.NoError(t, p.Publish(now))

		assert.Equal(t, post.Published, p.Status())
		assert.Equal(t, now, p.PostDate())
		assert.Equal(t, now, p.ModifyDate())
	})

	t.Run("republish refreshes timestamps", func(t *testing.T) {
		p := restore(t, post.Published, now.Add(-time.Hour), 3)

		require.NoError(t, p.Publish(now))

		assert.Equal(t, post.Published, p.Status())
		assert.Equal(t, now, p.ModifyDate())
	})

	t.Run("unavailable cannot be republished", func(t *testing.T) {
		p := restore(t, post.Unavailable, now.Add(-time.Hour), 3)

		err := p.Publish(now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, post.Unavailable, p.Status())
	})
}

func TestPost_RecordVisit(t *testing.T) {
	t.Run("post published this instant has a finite average", func(t *testing.T) {
		p := restore(t, post.Published, now, 0)

		p.RecordVisit(now)

		assert.Equal(t, int64(1), p.TotalViews())
		assert.False(t, math.IsInf(p.AverageViews(), 0))
		assert.False(t, math.IsNaN(p.AverageViews()))
		assert.InDelta(t, 24.0, p.AverageViews(), 1e-9)
	})

	t.Run("post date in the future is clamped", func(t *testing.T) {
		p := restore(t, post.Published, now.Add(time.Hour), 0)

		p.RecordVisit(now)

		assert.InDelta(t, 24.0, p.AverageViews(), 1e-9)
	})

	t.Run("average uses fractional days", func(t *testing.T) {
		p := restore(t, post.Published, now.Add(-36*time.Hour), 2)

		p.RecordVisit(now)

		assert.Equal(t, int64(3), p.TotalViews())
		assert.InDelta(t, 2.0, p.AverageViews(), 1e-9)
	})
}

func TestPost_Summary(t *testing.T) {
	p, err := post.NewPost(1, "t", "a", "<p>Hello   <b>big</b> world</p>")
	require.NoError(t, err)

	assert.Equal(t, "Hello big world", p.Summary(100))
	assert.Equal(t, "Hello...", p.Summary(5))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Published", post.Published.String())
	assert.Equal(t, "Unknown", post.Status(42).String())
	require.Error(t, post.Status(42).Validate())
	require.Error(t, post.Unknown.Validate())
}
