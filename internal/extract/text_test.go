package extract

import (
	"strings"
	"testing"
)

func TestVisibleText(t *testing.T) {
	htmlContent := `<html><head>
		<title>Flood Update</title>
		<script>var tracking = true;</script>
		<style>body { color: red; }</style>
	</head><body>
		<nav>Home | About</nav>
		<h1>Flooding in Cedar Rapids</h1>
		<p>Water levels rose overnight. 300 people evacuated.</p>
		<noscript>Enable JS</noscript>
		<footer>Copyright 2026</footer>
	</body></html>`

	text, err := VisibleText(htmlContent)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	if !strings.Contains(text, "Flooding in Cedar Rapids") {
		t.Errorf("Expected heading text, got %q", text)
	}
	if !strings.Contains(text, "300 people evacuated") {
		t.Errorf("Expected body text, got %q", text)
	}
	if strings.Contains(text, "tracking") {
		t.Error("Script content should be skipped")
	}
	if strings.Contains(text, "color: red") {
		t.Error("Style content should be skipped")
	}
	if strings.Contains(text, "Copyright") {
		t.Error("Footer content should be skipped")
	}
}

func TestVisibleText_PlainText(t *testing.T) {
	// The parser accepts bare text; it must come back intact.
	text, err := VisibleText("just a plain report with no markup")
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}
	if text != "just a plain report with no markup" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestTruncateForOracle(t *testing.T) {
	short := "short report"
	if got := TruncateForOracle(short); got != short {
		t.Errorf("Short text should pass through, got %q", got)
	}

	long := strings.Repeat("word ", 2000)
	got := TruncateForOracle(long)
	if len(got) > MaxOracleChars {
		t.Errorf("Expected at most %d chars, got %d", MaxOracleChars, len(got))
	}
	if strings.HasSuffix(got, "wor") {
		t.Error("Truncation should not split a word")
	}
}
