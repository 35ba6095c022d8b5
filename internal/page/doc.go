// Package page holds a loaded HTML document and adapts it to the core
// ports: it is the Document a FindService highlights and the PageSource
// the analyzer reads.
//
// Every <iframe srcdoc> becomes a child Page with its own registry. The
// frames are coordinated by a FrameService; their markup is written back
// into the srcdoc attribute when the page is rendered.
package page
