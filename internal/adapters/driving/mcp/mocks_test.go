package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/page"
	"github.com/custodia-labs/findable/internal/session"
)

var testPages = map[string]string{
	"cats.html": `<html><head><title>Pets</title></head><body>` +
		`<h1>Pets</h1><p>The cat sat on the mat. Another cat slept.</p>` +
		`<iframe srcdoc="&lt;p&gt;A cat in a frame&lt;/p&gt;"></iframe></body></html>`,
	"empty.html": `<html><body></body></html>`,
	"gallery.html": `<html><body><p>Our cat.</p>` +
		`<img src="cat.png" alt="A cat"><img src="dog.png" alt="A dog"></body></html>`,
}

// pageOpener opens pages from testPages.
type pageOpener struct {
	opened []string
}

func (o *pageOpener) Open(_ context.Context, src string) (*session.Session, error) {
	o.opened = append(o.opened, src)
	doc, ok := testPages[src]
	if !ok {
		return nil, domain.ErrPageUnavailable
	}
	p, err := page.ParseString(doc)
	if err != nil {
		return nil, err
	}
	return session.New(p, src, session.Config{Settings: domain.DefaultAppSettings()}), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Pages: &pageOpener{}})
	require.NoError(t, err)
	return server
}

func openTestPage(t *testing.T, server *Server, src string) string {
	t.Helper()
	_, out, err := server.handleOpenPage(context.Background(), nil, OpenPageInput{Source: src})
	require.NoError(t, err)
	return out.SessionID
}
