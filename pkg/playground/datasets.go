package playground

import (
	"embed"

	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/errors"
)

//go:embed datasets/*.json
var datasetFS embed.FS

// Dataset names in menu order.
var DatasetNames = []string{"workflow", "organization", "system", "complex", "complexNoGroups"}

// DatasetTitles are the menu labels.
var DatasetTitles = map[string]string{
	"workflow":        "Customer Onboarding Workflow",
	"organization":    "Organization Chart",
	"system":          "System Architecture",
	"complex":         "Data Platform (Grouped)",
	"complexNoGroups": "Data Platform (No Groups)",
}

// Dataset returns a fresh copy of the named sample dataset.
func Dataset(name string) ([]Element, error) {
	data, err := datasetFS.ReadFile("datasets/" + name + ".json")
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnknownDataset, "unknown dataset %q", name)
	}
	var els []Element
	if err := json.Unmarshal(data, &els); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode dataset %q", name)
	}
	return els, nil
}
