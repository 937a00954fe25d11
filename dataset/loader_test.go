package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/mlkit/core"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "age,city,label\n34,beijing,yes\n,shanghai,no\n29,NA,yes\n")

	ds, err := Load(path, "label", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ds.Rows(); got != 3 {
		t.Fatalf("Rows = %d, want 3", got)
	}
	if len(ds.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(ds.Columns))
	}

	age := ds.Column("age")
	if age.Kind != core.ColumnNumeric {
		t.Errorf("age kind = %v, want numeric", age.Kind)
	}
	if !age.Missing[1] || age.Missing[0] || age.Missing[2] {
		t.Errorf("age missing = %v, want [false true false]", age.Missing)
	}
	if age.Nums[0] != 34 || age.Nums[2] != 29 {
		t.Errorf("age nums = %v", age.Nums)
	}

	city := ds.Column("city")
	if city.Kind != core.ColumnText {
		t.Errorf("city kind = %v, want text", city.Kind)
	}
	if !city.Missing[2] {
		t.Errorf("city NA cell should be missing")
	}
}

func TestLoadMixedColumnIsText(t *testing.T) {
	path := writeCSV(t, "code,label\n1,a\nx7,b\n2,a\n")

	ds, err := Load(path, "label", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ds.Column("code").Kind; got != core.ColumnText {
		t.Errorf("code kind = %v, want text (one cell is not numeric)", got)
	}
}

func TestLoadAllMissingColumnIsText(t *testing.T) {
	path := writeCSV(t, "v,label\nNA,a\n,b\n")

	ds, err := Load(path, "label", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ds.Column("v").Kind; got != core.ColumnText {
		t.Errorf("all-missing column kind = %v, want text", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  string
		check   func(error) bool
		errName string
	}{
		{
			name:    "target not in header",
			content: "a,b\n1,2\n",
			target:  "label",
			check:   core.IsConfiguration,
			errName: "CONFIGURATION",
		},
		{
			name:    "no data rows",
			content: "a,label\n",
			target:  "label",
			check:   core.IsData,
			errName: "DATA",
		},
		{
			name:    "empty file",
			content: "",
			target:  "label",
			check:   core.IsData,
			errName: "DATA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := Load(path, tt.target, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("error = %v, want %s", err, tt.errName)
			}
		})
	}
}

func TestLoadMissingFileIsConfiguration(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "label", 0)
	if !core.IsConfiguration(err) {
		t.Errorf("error = %v, want CONFIGURATION", err)
	}
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "NA", "NaN", "N/A", "null"} {
		if !IsMissing(cell) {
			t.Errorf("IsMissing(%q) = false, want true", cell)
		}
	}
	for _, cell := range []string{"0", "na", "none", " "} {
		if IsMissing(cell) {
			t.Errorf("IsMissing(%q) = true, want false", cell)
		}
	}
}
