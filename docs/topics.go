// Package docs holds the user documentation, one markdown topic per file.
//
// readme.md is the index: each "* name: summary" line lists a topic, and the
// index order is the reading order.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Topic is an entry of the index.
type Topic struct {
	Name    string
	Summary string
}

// Index returns the topics listed in readme.md, in order.
func Index() ([]Topic, error) {
	content, err := docs.ReadFile("readme.md")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line, ok := strings.CutPrefix(scanner.Text(), "* ")
		if !ok {
			continue
		}
		if name, summary, ok := strings.Cut(line, ":"); ok {
			topics = append(topics, Topic{Name: strings.TrimSpace(name), Summary: strings.TrimSpace(summary)})
		}
	}
	return topics, scanner.Err()
}

// GetAllTopics returns the names of the indexed topics, in reading order.
func GetAllTopics() ([]string, error) {
	index, err := Index()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(index))
	for _, t := range index {
		names = append(names, t.Name)
	}
	return names, nil
}

// GetTopic returns the content of a documentation topic, "readme" being the index itself.
func GetTopic(topic string) (string, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics concatenates topics. "*" stands for every indexed topic.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		names := []string{topic}
		if topic == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			names = all
		}
		for _, name := range names {
			content, err := GetTopic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
