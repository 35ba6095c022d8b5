package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
)

func TestServer_handleOpenPage(t *testing.T) {
	ctx := context.Background()

	t.Run("opens page and stores session", func(t *testing.T) {
		server := newTestServer(t)

		_, out, err := server.handleOpenPage(ctx, nil, OpenPageInput{Source: "cats.html"})
		require.NoError(t, err)

		assert.NotEmpty(t, out.SessionID)
		assert.Equal(t, "cats.html", out.Source)
		assert.Equal(t, "Pets", out.Title)
		assert.Equal(t, 1, out.Frames)
		assert.Positive(t, out.WordCount)

		_, err = server.ports.Sessions.Get(out.SessionID)
		assert.NoError(t, err)
	})

	t.Run("empty source is rejected", func(t *testing.T) {
		server := newTestServer(t)
		_, _, err := server.handleOpenPage(ctx, nil, OpenPageInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("load failure is returned", func(t *testing.T) {
		server := newTestServer(t)
		_, _, err := server.handleOpenPage(ctx, nil, OpenPageInput{Source: "missing.html"})
		assert.ErrorIs(t, err, domain.ErrPageUnavailable)
		assert.Empty(t, server.ports.Sessions.List())
	})
}

func TestServer_handleHighlight(t *testing.T) {
	ctx := context.Background()

	t.Run("highlights across page and frames", func(t *testing.T) {
		server := newTestServer(t)
		id := openTestPage(t, server, "cats.html")

		_, out, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id, Query: "cat"})
		require.NoError(t, err)

		assert.Equal(t, uint64(1), out.RequestID)
		assert.False(t, out.Stale)
		assert.Equal(t, []string{"cat"}, out.Terms.Primary)
		assert.NotNil(t, out.Terms.Semantic)
		assert.Equal(t, 3, out.Position.Total)
		assert.Equal(t, 0, out.Position.Current)
		require.NotNil(t, out.Position.Match)
		assert.Equal(t, "cat", out.Position.Match.Text)
		assert.Equal(t, "original", out.Position.Match.Category)
	})

	t.Run("lists matching images", func(t *testing.T) {
		server := newTestServer(t)
		id := openTestPage(t, server, "gallery.html")

		_, out, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id, Query: "cat"})
		require.NoError(t, err)

		assert.Equal(t, []domain.Image{{Src: "cat.png", Alt: "A cat"}}, out.Images)
	})

	t.Run("no images is an empty list", func(t *testing.T) {
		server := newTestServer(t)
		id := openTestPage(t, server, "cats.html")

		_, out, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id, Query: "cat"})
		require.NoError(t, err)

		assert.NotNil(t, out.Images)
		assert.Empty(t, out.Images)
	})

	t.Run("empty query clears", func(t *testing.T) {
		server := newTestServer(t)
		id := openTestPage(t, server, "cats.html")

		_, _, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id, Query: "cat"})
		require.NoError(t, err)
		_, out, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id})
		require.NoError(t, err)

		assert.Equal(t, 0, out.Position.Total)
		assert.Equal(t, domain.NoSelection, out.Position.Current)
		assert.Nil(t, out.Position.Match)
	})

	t.Run("unknown session", func(t *testing.T) {
		server := newTestServer(t)
		_, _, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: "nope", Query: "cat"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_Navigation(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)
	id := openTestPage(t, server, "cats.html")

	_, _, err := server.handleHighlight(ctx, nil, HighlightInput{SessionID: id, Query: "cat"})
	require.NoError(t, err)

	_, out, err := server.handleNext(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Current)

	_, out, err = server.handleNext(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Current)

	_, out, err = server.handleNext(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Current, "wraps to the first match")

	_, out, err = server.handlePrevious(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Current, "wraps to the last match")
	require.NotNil(t, out.Match)
	assert.Equal(t, "cat", out.Match.Text)

	_, out, err = server.handleGoto(ctx, nil, GotoInput{SessionID: id, Index: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Current, "index is clamped")

	_, out, err = server.handleGoto(ctx, nil, GotoInput{SessionID: id, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Current)

	_, out, err = server.handleClear(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, domain.NoSelection, out.Current)
	assert.Equal(t, 0, out.Total)

	_, _, err = server.handleNext(ctx, nil, SessionInput{SessionID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleClosePage(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)
	id := openTestPage(t, server, "cats.html")

	_, out, err := server.handleClosePage(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.True(t, out.Closed)

	_, out, err = server.handleClosePage(ctx, nil, SessionInput{SessionID: id})
	require.NoError(t, err)
	assert.False(t, out.Closed)
}

func TestServer_handleAnalyze(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t)
	id := openTestPage(t, server, "cats.html")

	_, out, err := server.handleAnalyze(ctx, nil, AnalyzeInput{SessionID: id, Keywords: 3})
	require.NoError(t, err)

	assert.Equal(t, "Pets", out.Facts.Title)
	require.NotEmpty(t, out.Facts.Headings)
	assert.Equal(t, "Pets", out.Facts.Headings[0].Text)
	assert.LessOrEqual(t, len(out.Keywords.Keywords), 3)
}
