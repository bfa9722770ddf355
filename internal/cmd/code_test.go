package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dendrascience/mediakey/internal/config"
	"github.com/dendrascience/mediakey/util"
)

func testConfig(scheme string) config.Config {
	return config.Config{Scheme: scheme, ShardSegments: 1, ShardSegmentLen: 3}
}

func TestRunCodeJSON(t *testing.T) {
	cfg := testConfig("shard")
	cfg.Root = "acme"
	cfg.APIEndpoint = "https://media.example.com/"

	urls := []string{
		"HTTPS://Example.COM:443/img/a.png?b=2&a=1#top",
		"https://example.com/img/a.png?a=1&b=2",
	}
	var buf bytes.Buffer
	if err := runCode(&buf, cfg, urls, "png", true, true); err != nil {
		t.Fatalf("runCode() error: %v", err)
	}

	var reports []codeReport
	if err := json.Unmarshal(buf.Bytes(), &reports); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}

	first := reports[0]
	if first.Normalized != "https://example.com/img/a.png?a=1&b=2" {
		t.Errorf("Normalized = %q", first.Normalized)
	}
	if first.Code != util.Code(urls[0]) {
		t.Errorf("Code = %q, want %q", first.Code, util.Code(urls[0]))
	}
	if first.Code != reports[1].Code {
		t.Errorf("equivalent URLs got different codes: %q and %q", first.Code, reports[1].Code)
	}
	wantKey, _ := util.OriginalKey(first.Code, "png")
	if first.Key != wantKey {
		t.Errorf("Key = %q, want %q", first.Key, wantKey)
	}
	if first.LegacyCode != util.LegacyCode(urls[0], "acme") {
		t.Errorf("LegacyCode = %q", first.LegacyCode)
	}
	if first.InfoURL != "https://media.example.com/media/"+first.Code {
		t.Errorf("InfoURL = %q", first.InfoURL)
	}
}

func TestRunCodeBins(t *testing.T) {
	cfg := testConfig("bins")
	cfg.Approx = 250000

	u := "https://cdn.example.org/photos/1.jpg"
	var buf bytes.Buffer
	if err := runCode(&buf, cfg, []string{u}, "jpg", false, false); err != nil {
		t.Fatalf("runCode() error: %v", err)
	}

	want, err := util.AccountPath(cfg.Approx, util.Code(u))
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "key:        "+want+"\n") {
		t.Errorf("output missing bins key %q:\n%s", want, out)
	}
	if strings.Contains(out, "legacy:") || strings.Contains(out, "info:") {
		t.Errorf("unexpected optional lines:\n%s", out)
	}
}

func TestRunCodeUnknownScheme(t *testing.T) {
	var buf bytes.Buffer
	if err := runCode(&buf, testConfig("flat"), []string{"https://example.com/"}, "", false, false); err == nil {
		t.Error("runCode() with an unknown scheme returned no error")
	}
}
