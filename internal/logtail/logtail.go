package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zhaohua/mpconsole/internal/jsontable"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// ReadObjects tails path like Read and decodes every JSON object line into a
// table item, newest last. Blank lines, plain text and non-object JSON are
// skipped.
func ReadObjects(path string, maxLines int) ([]*jsontable.Object, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	return ParseObjects(lines), nil
}

// ParseObjects decodes the JSON object lines among lines.
func ParseObjects(lines []string) []*jsontable.Object {
	items := make([]*jsontable.Object, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		v, err := jsontable.Decode([]byte(line))
		if err != nil || v.Kind() != jsontable.KindObject {
			continue
		}
		items = append(items, v.Object())
	}
	return items
}
