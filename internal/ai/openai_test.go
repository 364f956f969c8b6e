package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindungil/n2g/internal/syncer"
)

var _ syncer.Describer = (*OpenAIClient)(nil)

func TestDescribe(t *testing.T) {
	var gotModel, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 2 {
			gotUser = req.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  \"A short post\nabout Go.\" "},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c, err := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	out, err := c.Describe(context.Background(), "Go Tips", strings.Repeat("가", 3000), "Korean")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if out != "A short post about Go." {
		t.Errorf("got %q", out)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("model = %q", gotModel)
	}
	if n := strings.Count(gotUser, "가"); n != maxBodyRunes {
		t.Errorf("body not truncated: %d runes", n)
	}
}

func TestNewOpenAIRequiresModel(t *testing.T) {
	if _, err := NewOpenAI(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for empty model")
	}
}
