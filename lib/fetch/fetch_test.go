package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/theme.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("span { font-weight: 800 }"))
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Ada","count":3}`))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":`))
	})
	mux.HandleFunc("/form.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<div>\n  <form action=\"/save\"><input name=\"q\"></form>\n</div>"))
	})
	mux.HandleFunc("/noform.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<div><p>nothing</p></div>"))
	})
	mux.HandleFunc("/huge.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", MaxBody+1)))
	})
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestText(t *testing.T) {
	srv := newServer(t)
	c := New(WithHTTPClient(srv.Client()))

	text, err := c.Text(context.Background(), srv.URL+"/theme.css")
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "span { font-weight: 800 }" {
		t.Errorf("Text() = %q", text)
	}
}

func TestTextRelativeToBase(t *testing.T) {
	srv := newServer(t)
	base, _ := url.Parse(srv.URL + "/")
	c := New(WithHTTPClient(srv.Client()), WithBaseURL(base))

	if _, err := c.Text(context.Background(), "theme.css"); err != nil {
		t.Fatalf("Text() with base error = %v", err)
	}
}

func TestTextErrors(t *testing.T) {
	srv := newServer(t)
	c := New(WithHTTPClient(srv.Client()))

	tests := []struct {
		name     string
		locator  string
		sentinel error
		status   int
	}{
		{"not found", srv.URL + "/missing.html", ErrHTTPStatus, http.StatusNotFound},
		{"server error", srv.URL + "/boom", ErrHTTPStatus, http.StatusInternalServerError},
		{"relative without base", "card.html", ErrTransport, 0},
		{"unreachable", "http://127.0.0.1:1/card.html", ErrTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Text(context.Background(), tt.locator)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Text(%q) error = %v, want %v", tt.locator, err, tt.sentinel)
			}
			if got := Status(err); got != tt.status {
				t.Errorf("Status() = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	srv := newServer(t)
	c := New(WithHTTPClient(srv.Client()))

	var data struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := c.JSON(context.Background(), srv.URL+"/data.json", &data); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if data.Name != "Ada" || data.Count != 3 {
		t.Errorf("JSON() decoded %+v", data)
	}

	var v map[string]any
	err := c.JSON(context.Background(), srv.URL+"/broken.json", &v)
	if !errors.Is(err, ErrMalformedContent) {
		t.Errorf("JSON(broken) error = %v, want ErrMalformedContent", err)
	}
}

func TestForm(t *testing.T) {
	srv := newServer(t)
	c := New(WithHTTPClient(srv.Client()))

	form, err := c.Form(context.Background(), srv.URL+"/form.html")
	if err != nil {
		t.Fatalf("Form() error = %v", err)
	}
	if form.Element == nil || form.Element.Data != "form" {
		t.Fatalf("Form() element = %v", form.Element)
	}
	if len(form.Nodes) != 1 || form.Nodes[0].Data != "div" {
		t.Errorf("Form() nodes = %d, want one div", len(form.Nodes))
	}

	_, err = c.Form(context.Background(), srv.URL+"/noform.html")
	var mce *MalformedContentError
	if !errors.As(err, &mce) {
		t.Fatalf("Form(noform) error = %v, want MalformedContentError", err)
	}
	if mce.Reason != "no form element" {
		t.Errorf("Reason = %q", mce.Reason)
	}
}

func TestErrorMessages(t *testing.T) {
	err := &HTTPStatusError{URL: "card.html", Code: 404}
	if err.Error() != "fetch: GET card.html: HTTPStatusError(404)" {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrMalformedContent) {
		t.Error("HTTPStatusError should only match ErrHTTPStatus")
	}
}

func TestTextTooLarge(t *testing.T) {
	srv := newServer(t)
	c := New(WithHTTPClient(srv.Client()))

	_, err := c.Text(context.Background(), srv.URL+"/huge.html")
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("Text() error = %v, want ErrMalformedContent", err)
	}
	if !strings.Contains(err.Error(), "body exceeds 8.0 MiB") {
		t.Errorf("Text() error = %q", err.Error())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON("x.json", []byte(`{"name":"Ada"}`), &v); err != nil || v.Name != "Ada" {
		t.Fatalf("DecodeJSON() = %v, name %q", err, v.Name)
	}
	if err := DecodeJSON("x.json", []byte(`[`), &v); !errors.Is(err, ErrMalformedContent) {
		t.Errorf("DecodeJSON() error = %v, want ErrMalformedContent", err)
	}
}
