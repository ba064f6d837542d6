package compare

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// DiscoverCases returns the ids of the reference cases in dir: the stems of
// its *.svg files, sorted.
func DiscoverCases(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cases dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".svg" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".svg"))
	}
	sort.Strings(ids)
	return ids, nil
}

// TestCase is one entry of the viewer's testCases list.
type TestCase struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// DisplayName turns a case id into a viewer label: dashes become spaces and
// camelCase words are split ("loanApproval-v2" -> "loan Approval v2").
func DisplayName(id string) string {
	return camelBoundary.ReplaceAllString(strings.ReplaceAll(id, "-", " "), "$1 $2")
}

// WriteCaseConfig sets the testCases list of the viewer config at path to
// ids, keeping every other key. A missing file is created.
func WriteCaseConfig(path string, ids []string) error {
	cfg := map[string]json.RawMessage{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return err
	}

	cases := make([]TestCase, len(ids))
	for i, id := range ids {
		cases[i] = TestCase{ID: id, Name: DisplayName(id)}
	}
	raw, err := json.Marshal(cases)
	if err != nil {
		return err
	}
	cfg["testCases"] = raw

	flat, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, flat, "", "  "); err != nil {
		return err
	}
	return os.WriteFile(path, out.Bytes(), 0644)
}

// ReadCaseConfig returns the testCases list of the viewer config at path.
func ReadCaseConfig(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		TestCases []TestCase `json:"testCases"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.TestCases, nil
}
