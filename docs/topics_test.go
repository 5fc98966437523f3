package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	// This test ensures that the documentation index is in sync with the files:
	// 1. Every topic listed in readme.md can be loaded.
	// 2. Every .md file (excluding readme.md itself) is listed in readme.md.
	topicsInReadme := readmeTopics(t)

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		if base != "readme" && !slices.Contains(topicsInReadme, base) {
			t.Errorf("topic %q is not listed in readme.md", base)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	if !slices.Equal(all, topicsInReadme) {
		t.Errorf("GetAllTopics() = %v, want %v", all, topicsInReadme)
	}
}

func TestTopicsHaveATitle(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append(all, "readme") {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			root := md.Parser().Parse(text.NewReader([]byte(content)))
			h, ok := root.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic %q does not start with a title", topic)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	index, err := Index()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"dates", "transactions", "capital-base", "closing", "import"}
	if len(index) != len(want) {
		t.Fatalf("Index() has %d topics, want %d", len(index), len(want))
	}
	for i, topic := range index {
		if topic.Name != want[i] {
			t.Errorf("Index()[%d] = %q, want %q", i, topic.Name, want[i])
		}
		if topic.Summary == "" {
			t.Errorf("topic %q has no summary", topic.Name)
		}
	}
}

func TestGetTopics(t *testing.T) {
	if _, err := GetTopic("unknown"); err == nil {
		t.Error("GetTopic(unknown) expected an error")
	}
	got, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	// Topics come in reading order.
	last := -1
	for _, title := range []string{"# Dates", "# Capital base", "# Import"} {
		i := strings.Index(got, title)
		if i < 0 {
			t.Errorf("GetTopics(*) misses %q", title)
			continue
		}
		if i < last {
			t.Errorf("GetTopics(*) has %q out of order", title)
		}
		last = i
	}
	if _, err := GetTopic("*"); err == nil {
		t.Error("GetTopic(*) expected an error")
	}
}
